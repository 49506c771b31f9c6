package termui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jgivc/packfix/internal/config"
	"github.com/jgivc/packfix/internal/entity"
	"github.com/jgivc/packfix/internal/service/batch"
)

const (
	ansiHomeClear  = "\033[H\033[2J"
	ansiHideCursor = "\033[?25l"
	ansiShowCursor = "\033[?25h"

	ruleWidth = 70
	// Trailing blank lines per frame, so a shorter frame fully covers
	// the previous one.
	framePadding = 10
)

// Renderer draws progress frames and the final summary. With ANSI
// support it repaints the whole screen per frame, flicker free; without
// it, it degrades to sequential status lines.
type Renderer struct {
	out          io.Writer
	caps         Caps
	icons        iconSet
	barWidth     int
	nameWidth    int
	backupPrefix string
}

func NewRenderer(out io.Writer, caps Caps, cfg *config.Config) *Renderer {
	return &Renderer{
		out:          out,
		caps:         caps,
		icons:        iconsFor(caps),
		barWidth:     cfg.UI.BarWidth,
		nameWidth:    cfg.UI.NameWidth,
		backupPrefix: cfg.Patcher.BackupPrefix,
	}
}

// Frame implements batch.Reporter.
func (r *Renderer) Frame(f *batch.Frame) {
	if !r.caps.ANSI {
		r.plainFrame(f)

		return
	}

	var b strings.Builder
	b.WriteString(ansiHomeClear)

	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)

	b.WriteString(rule + "\n")
	b.WriteString("  TEXTURE PACK BATCH FIXER\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("Recent completions:\n")
	b.WriteString(thin + "\n")
	if len(f.State.Items) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, item := range f.State.Items {
		b.WriteString(r.historyLine(item) + "\n")
	}
	b.WriteString(thin + "\n\n")

	fmt.Fprintf(&b, "[%d/%d] Processing: %s\n", f.Index, f.Total, truncate(f.Archive.Name, r.nameWidth))
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Overall: %s\n", r.progressBar(f.Index, f.Total))
	b.WriteString(thin + "\n\n")

	for _, line := range f.StatusLines {
		b.WriteString(r.statusLine(line) + "\n")
	}

	b.WriteString(strings.Repeat("\n", framePadding))

	fmt.Fprint(r.out, b.String())
}

// plainFrame prints only the newest status line, one per update.
func (r *Renderer) plainFrame(f *batch.Frame) {
	if len(f.StatusLines) == 0 {
		return
	}

	last := r.statusLine(f.StatusLines[len(f.StatusLines)-1])
	fmt.Fprintf(r.out, "[%d/%d] %s: %s\n", f.Index, f.Total, truncate(f.Archive.Name, r.nameWidth), last)
}

// statusLine prefixes a driver status with the glyph the matching
// processing step carries.
func (r *Renderer) statusLine(line string) string {
	switch {
	case strings.HasPrefix(line, "Checking"):
		return r.icons.Search + " " + line
	case strings.HasPrefix(line, "Scanning"):
		return r.icons.Wrench + " " + line
	case strings.HasPrefix(line, "Writing"):
		return r.icons.Package + " " + line
	case strings.HasPrefix(line, "Done"):
		return r.icons.Check + " " + line
	default:
		return line
	}
}

func (r *Renderer) historyLine(item entity.HistoryItem) string {
	out := item.Outcome
	label := out.Status.String()
	if out.Status == entity.StatusFixed {
		label = fmt.Sprintf("Fixed %d", out.Fixed)
	}

	return fmt.Sprintf("[%d/%d] %s | %s", item.Index, item.Total, truncate(out.Archive.Name, 40), label)
}

func (r *Renderer) progressBar(iteration, total int) string {
	if total == 0 {
		return "|" + strings.Repeat("-", r.barWidth) + "| 0.0%"
	}

	percent := 100 * float64(iteration) / float64(total)
	filled := r.barWidth * iteration / total
	bar := strings.Repeat(r.icons.Fill, filled) + strings.Repeat("-", r.barWidth-filled)

	return fmt.Sprintf("|%s| %.1f%%", bar, percent)
}

// Banner prints the startup header with the working directory and the
// detected terminal mode.
func (r *Renderer) Banner(workDir string) {
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "  TEXTURE PACK BATCH FIXER")
	fmt.Fprintln(r.out, "  Replaces #missing with #0 in model JSON files")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "\nWorking directory: %s\n", workDir)

	var modes []string
	if r.caps.ANSI {
		modes = append(modes, "ANSI codes enabled")
	}
	if r.caps.Emoji {
		modes = append(modes, "emoji support detected")
	}
	if len(modes) > 0 {
		fmt.Fprintf(r.out, "Mode: %s\n", strings.Join(modes, ", "))
	}
}

func (r *Renderer) HideCursor() {
	if r.caps.ANSI {
		fmt.Fprint(r.out, ansiHideCursor)
	}
}

func (r *Renderer) ShowCursor() {
	if r.caps.ANSI {
		fmt.Fprint(r.out, ansiShowCursor)
	}
}

// Done prints the closing line once the whole batch is over.
func (r *Renderer) Done() {
	fmt.Fprintf(r.out, "\n%s All done!\n", r.icons.Sparkle)
}

// truncate shortens a display name to max runes, so multibyte archive
// names are never cut mid-rune.
func truncate(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}

	return string(runes[:max-3]) + "..."
}
