package rpni

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/journal"
)

// Runner steps through a replay using provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
//
// Interactive commands, one per line: Enter or "n" for the next step, "p" for
// the previous one, "q" to quit.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run replays p until its end, or until the user quits.
func (r *Runner) Run(p *journal.Player) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	var lines *bufio.Reader
	if !r.Headless {
		if r.Input == nil {
			return fmt.Errorf("input reader must be set (use os.Stdin)")
		}
		lines = bufio.NewReader(r.Input)
		fmt.Fprintln(r.Output, "--- RPNI replay (n: next, p: previous, q: quit) ---")
	}

	r.show(stepMarkdown(p, nil, p.Current()))

	for {
		cmd := "n"
		if !r.Headless {
			if !p.HasNext() {
				fmt.Fprintln(r.Output, "End of replay. (p: previous, q: quit)")
			}
			fmt.Fprint(r.Output, "> ")
			text, err := lines.ReadString('\n')
			if err != nil {
				if !errors.Is(err, io.EOF) {
					return fmt.Errorf("input error: %w", err)
				}
				// Graceful exit on EOF
				if strings.TrimSpace(text) == "" {
					return nil
				}
			}
			cmd = strings.ToLower(strings.TrimSpace(text))
		} else if !p.HasNext() {
			return nil
		}

		switch cmd {
		case "", "n", "next":
			if !p.HasNext() {
				continue
			}
			op, _ := p.Peek()
			a, err := p.Next()
			if err != nil {
				return err
			}
			r.show(stepMarkdown(p, &op, a))
		case "p", "prev", "previous":
			if !p.HasPrev() {
				fmt.Fprintln(r.Output, "Already at the first step.")
				continue
			}
			a, err := p.Prev()
			if err != nil {
				return err
			}
			var op *domain.Operation
			if p.HasPrev() {
				ops := p.Operations()
				op = &ops[p.Index()-1]
			}
			r.show(stepMarkdown(p, op, a))
		case "q", "quit", "exit":
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		default:
			fmt.Fprintf(r.Output, "Unknown command %q\n", cmd)
		}
	}
}

func (r *Runner) show(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

// stepMarkdown describes the automaton reached after op.
func stepMarkdown(p *journal.Player, op *domain.Operation, a *automaton.Automaton) string {
	var sb strings.Builder
	if op == nil {
		fmt.Fprintf(&sb, "## Step 0/%d: trace chains\n\n", p.Len())
	} else {
		fmt.Fprintf(&sb, "## Step %d/%d: %s\n\n%s\n\n", p.Index(), p.Len(), op.Kind, op.Note)
	}

	sb.WriteString("| State | Label | Flags |\n|---|---|---|\n")
	for _, st := range a.States() {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", st.Code, st.Label, strings.Join(flags(st), " "))
	}

	sb.WriteString("\n")
	for _, code := range a.Codes() {
		for _, t := range a.Transitions(code) {
			fmt.Fprintf(&sb, "- %d -%s-> %d\n", code, t.Symbol, t.To)
		}
	}
	return sb.String()
}

func flags(st domain.State) []string {
	var out []string
	if st.Start {
		out = append(out, "start")
	}
	if st.Accepting {
		out = append(out, "accepting")
	}
	if st.Red {
		out = append(out, "red")
	}
	if st.Blue {
		out = append(out, "blue")
	}
	return out
}
