// Package richtext models record bodies as ordered runs of styled text.
// Positions are rune offsets; documents are values and every edit returns a
// new normalized document.
package richtext

import (
	"strings"
	"unicode/utf8"
)

type Style struct {
	Bold      bool   `json:"bold,omitempty" yaml:"bold"`
	Italic    bool   `json:"italic,omitempty" yaml:"italic"`
	Underline bool   `json:"underline,omitempty" yaml:"underline"`
	Color     string `json:"color,omitempty" yaml:"color"`
}

type Run struct {
	Text  string `json:"text" yaml:"text"`
	Style Style  `json:"style" yaml:"style"`
}

type Document struct {
	Runs []Run `json:"runs" yaml:"runs"`
}

// New returns an unstyled document holding text.
func New(text string) Document {
	return Document{Runs: []Run{{Text: text}}}.Normalize()
}

// Len is the document length in runes.
func (d Document) Len() int {
	n := 0
	for _, r := range d.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

func (d Document) IsEmpty() bool {
	return d.Len() == 0
}

func (d Document) PlainText() string {
	var b strings.Builder
	for _, r := range d.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Normalize drops empty runs and merges neighbours with equal styles.
func (d Document) Normalize() Document {
	out := make([]Run, 0, len(d.Runs))
	for _, r := range d.Runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return Document{Runs: out}
}

// StyleAt returns the style a character inserted at pos would inherit: the
// style of the preceding rune, or of the first rune at the start.
func (d Document) StyleAt(pos int) Style {
	if len(d.Runs) == 0 {
		return Style{}
	}
	offset := 0
	for _, r := range d.Runs {
		n := utf8.RuneCountInString(r.Text)
		if pos <= offset+n && pos > offset {
			return r.Style
		}
		offset += n
	}
	return d.Runs[0].Style
}

// chars explodes d into one run per rune.
func (d Document) chars() []Run {
	out := make([]Run, 0, d.Len())
	for _, r := range d.Runs {
		for _, ch := range r.Text {
			out = append(out, Run{Text: string(ch), Style: r.Style})
		}
	}
	return out
}
