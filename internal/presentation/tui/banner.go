package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Kitchen Helper banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Warm gradient, amber to red.
	lines := []struct {
		text, color string
	}{
		{"  _  ___ _       _                ", "#fbbf24"},
		{" | |/ (_) |_ ___| |__   ___ _ __  ", "#f59e0b"},
		{" | ' /| | __/ __| '_ \\ / _ \\ '_ \\ ", "#f97316"},
		{" | . \\| | || (__| | | |  __/ | | |", "#ea580c"},
		{" |_|\\_\\_|\\__\\___|_| |_|\\___|_| |_|", "#dc2626"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  helper "+version).Faint())
	fmt.Fprintln(w)
}
