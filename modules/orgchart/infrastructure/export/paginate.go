package export

import (
	"strings"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

const DefaultLinesPerPage = 40

// Line is one person in the listing.
type Line struct {
	Depth int
	Text  string
}

type Page struct {
	Number int
	Lines  []Line
}

// LineText renders an entry as "Name — Role".
func LineText(e hierarchy.Entry) string {
	if e.Person.RoleLabel == "" {
		return e.Person.Name
	}
	return e.Person.Name + " — " + e.Person.RoleLabel
}

// Indented prefixes the line with two spaces per level.
func (l Line) Indented() string {
	return strings.Repeat("  ", l.Depth) + l.Text
}

// Paginate starts a new page every linesPerPage lines. Non-positive values
// fall back to DefaultLinesPerPage. An empty listing yields no pages.
func Paginate(entries []hierarchy.Entry, linesPerPage int) []Page {
	if linesPerPage <= 0 {
		linesPerPage = DefaultLinesPerPage
	}
	pages := make([]Page, 0, (len(entries)+linesPerPage-1)/linesPerPage)
	for i, e := range entries {
		if i%linesPerPage == 0 {
			pages = append(pages, Page{Number: len(pages) + 1, Lines: make([]Line, 0, linesPerPage)})
		}
		last := &pages[len(pages)-1]
		last.Lines = append(last.Lines, Line{Depth: e.Depth, Text: LineText(e)})
	}
	return pages
}
