package termui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the interactive questions the batch needs answered
// once, before it starts.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	icons iconSet
}

func NewPrompter(in io.Reader, out io.Writer, caps Caps) *Prompter {
	return &Prompter{
		in:    bufio.NewScanner(in),
		out:   out,
		icons: iconsFor(caps),
	}
}

// ConfirmBackups asks whether originals should be backed up. Declining
// requires a literal "yes" confirmation since without backups the
// originals are overwritten for good. Input exhaustion falls back to
// the safe answer.
func (p *Prompter) ConfirmBackups() bool {
	for {
		fmt.Fprint(p.out, "\nCreate backups of original files? (Y/n): ")
		answer, ok := p.read()
		if !ok {
			return true
		}

		switch answer {
		case "y", "yes", "":
			fmt.Fprintf(p.out, "%s Backups will be created\n", p.icons.Check)

			return true
		case "n", "no":
			fmt.Fprintf(p.out, "\n%s WARNING: Original files will be PERMANENTLY overwritten!\n", p.icons.Warning)
			fmt.Fprintf(p.out, "%s This action CANNOT be undone!\n", p.icons.Warning)
			fmt.Fprint(p.out, "\nAre you absolutely sure? Type 'yes' to confirm: ")

			confirm, ok := p.read()
			if ok && confirm == "yes" {
				fmt.Fprintf(p.out, "%s Backups disabled, proceeding without backups\n", p.icons.Warning)

				return false
			}

			fmt.Fprintf(p.out, "\n%s Cancelled. Let's try again.\n", p.icons.Check)
		default:
			fmt.Fprintln(p.out, "Invalid input. Please enter 'y' or 'n'.")
		}
	}
}

// Pause blocks until the user presses Enter.
func (p *Prompter) Pause(msg string) {
	fmt.Fprintf(p.out, "\n%s", msg)
	p.in.Scan()
}

func (p *Prompter) read() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}

	return strings.ToLower(strings.TrimSpace(p.in.Text())), true
}
