package termui

import (
	"fmt"
	"strings"

	"github.com/jgivc/packfix/internal/entity"
)

// Summary prints the final report: counts per bucket, per-archive
// listings and the backup note. Failure messages are the short
// diagnostics recorded by the driver, never raw stack traces.
func (r *Renderer) Summary(sum *entity.Summary, backups bool) {
	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)

	if r.caps.ANSI {
		fmt.Fprint(r.out, ansiHomeClear)
	}

	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "  FINAL SUMMARY")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "\nTotal packs scanned: %d\n", sum.Total)
	fmt.Fprintf(r.out, "%s Processed: %d\n", r.icons.Check, len(sum.Processed))
	fmt.Fprintf(r.out, "%s Skipped (no models): %d\n", r.icons.Skip, len(sum.Skipped))
	fmt.Fprintf(r.out, "%s Failed: %d\n", r.icons.Cross, len(sum.Failed))
	fmt.Fprintf(r.out, "%s Total files fixed: %d\n", r.icons.Wrench, sum.TotalFixed)

	if len(sum.Processed) > 0 {
		fmt.Fprintln(r.out, "\n"+thin)
		fmt.Fprintf(r.out, "%s SUCCESSFULLY PROCESSED:\n", r.icons.Check)
		for _, out := range sum.Processed {
			name := truncate(out.Archive.Name, r.nameWidth)
			if out.Status == entity.StatusFixed {
				fmt.Fprintf(r.out, "   %s %s (%d file(s))\n", r.icons.Tick, name, out.Fixed)
			} else {
				fmt.Fprintf(r.out, "   %s %s (clean)\n", r.icons.Circle, name)
			}
		}
	}

	if len(sum.Skipped) > 0 {
		fmt.Fprintln(r.out, "\n"+thin)
		fmt.Fprintf(r.out, "%s SKIPPED (NO MODEL FILES):\n", r.icons.Skip)
		for _, out := range sum.Skipped {
			fmt.Fprintf(r.out, "   - %s\n", truncate(out.Archive.Name, r.nameWidth+5))
		}
	}

	if len(sum.Failed) > 0 {
		fmt.Fprintln(r.out, "\n"+thin)
		fmt.Fprintf(r.out, "%s FAILED:\n", r.icons.Cross)
		for _, out := range sum.Failed {
			fmt.Fprintf(r.out, "   x %s\n", truncate(out.Archive.Name, r.nameWidth+5))
			fmt.Fprintf(r.out, "     %s\n", out.Message)
		}
	}

	if sum.TotalFixed > 0 {
		fmt.Fprintln(r.out, "\n"+thin)
		if backups {
			fmt.Fprintf(r.out, "%s Backups saved with '%s' prefix\n", r.icons.Disk, r.backupPrefix)
		} else {
			fmt.Fprintf(r.out, "%s No backups created\n", r.icons.Warning)
		}
	}

	fmt.Fprintln(r.out, "\n"+rule)
}
