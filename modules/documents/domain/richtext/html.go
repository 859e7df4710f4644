package richtext

import (
	"html"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// RunBaseClass is applied to every run before style classes are merged in.
const RunBaseClass = "font-normal not-italic no-underline text-gray-900"

// Classes returns the utility classes for s, merged over RunBaseClass.
func (s Style) Classes() string {
	extra := make([]string, 0, 4)
	if s.Bold {
		extra = append(extra, "font-bold")
	}
	if s.Italic {
		extra = append(extra, "italic")
	}
	if s.Underline {
		extra = append(extra, "underline")
	}
	if s.Color != "" {
		extra = append(extra, "text-["+s.Color+"]")
	}
	return twmerge.Merge(RunBaseClass, strings.Join(extra, " "))
}

// HTML renders the document as escaped spans inside a single container.
func (d Document) HTML() string {
	var b strings.Builder
	b.WriteString(`<div class="richtext whitespace-pre-wrap">`)
	for _, r := range d.Normalize().Runs {
		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(r.Style.Classes()))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(r.Text))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
