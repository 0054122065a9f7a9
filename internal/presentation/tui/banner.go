package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`   ____            ____             `,
	`  / ___| ___ _ __ / ___| _   _ _ __  `,
	` | |  _ / _ \ '_ \\___ \| | | | '_ \ `,
	` | |_| |  __/ | | |___) | |_| | | | |`,
	`  \____|\___|_| |_|____/ \__, |_| |_|`,
	`                         |___/       `,
}

var bannerColors = []string{"#22d3ee", "#38bdf8", "#60a5fa", "#818cf8", "#a78bfa", "#c084fc"}

// PrintBanner writes the GenSyn banner, coloured when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(w, out.String("  gate graph synthesizer "+version).Faint())
	fmt.Fprintln(w)
}
