package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the rpni ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ____  ____  _   _ ___ ", "#f87171"},
		{" |  _ \\|  _ \\| \\ | |_ _|", "#fb923c"},
		{" | |_) | |_) |  \\| || | ", "#a78bfa"},
		{" |  _ <|  __/| |\\  || | ", "#818cf8"},
		{" |_| \\_\\_|   |_| \\_|___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Badge renders an operation kind in the color of the search phase it belongs to.
func Badge(kind string) string {
	p := termenv.ColorProfile()
	color := "#9ca3af"
	switch kind {
	case "commit", "promote_red":
		color = "#ef4444"
	case "mark_blue":
		color = "#3b82f6"
	case "rollback":
		color = "#f59e0b"
	case "merge", "merge_out":
		color = "#22c55e"
	}
	return termenv.String(fmt.Sprintf("[%s]", kind)).Foreground(p.Color(color)).Bold().String()
}
