package main

import (
	"encoding/json"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

var rootStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#89b4fa"))

func styleRoot(s string) string {
	return rootStyle.Render(s)
}

func writeJSON(w io.Writer, v any, color bool) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if color {
		return quick.Highlight(w, string(b), "json", "terminal256", "monokai")
	}
	_, err = w.Write(b)
	return err
}
