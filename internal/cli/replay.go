package cli

import (
	"io"
	"os"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/presentation/tui"
	"golang.org/x/term"
)

// ReplayOptions configures Replay.
type ReplayOptions struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
}

// Replay steps through the operation log of result. Output is rendered with
// glamour only when stdout is an interactive terminal and headless is off.
func Replay(result *rpni.Result, opts ReplayOptions) error {
	runner := rpni.NewRunner()
	runner.Input = opts.Input
	runner.Output = opts.Output
	runner.Headless = opts.Headless

	if !opts.Headless && isTerminal(opts.Output) {
		runner.Renderer = tui.NewRenderer()
	}
	return runner.Run(result.Player())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
