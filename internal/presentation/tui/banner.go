package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the conform banner to w using the given color profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{"                   __", "#34d399"},
		{"  ____ ___  ____  / _/___  _________ ___", "#2dd4bf"},
		{" / __/ _ \\/ __ \\/ _/ __ \\/ ___/ __ `__ \\", "#22d3ee"},
		{"/ /_/ // / / / / // /_/ / /  / / / / / /", "#38bdf8"},
		{"\\__/\\___/_/ /_/_/ \\____/_/  /_/ /_/ /_/", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
