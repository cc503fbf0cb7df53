package main

import "github.com/charmbracelet/lipgloss"

// Console styles for the progress line and run summary.
var (
	styleProgress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderBar draws a fixed-width completion bar for the in-place progress
// line.
func renderBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}
