package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

func entries(n int) []hierarchy.Entry {
	out := make([]hierarchy.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, hierarchy.Entry{
			Depth: i % 3,
			Person: hierarchy.Person{
				ID:        fmt.Sprintf("p%d", i),
				Name:      fmt.Sprintf("Person %d", i),
				RoleLabel: "Inspector",
				ManagerID: hierarchy.Ref("p0"),
			},
		})
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Paginate(nil, 10))

	pages := Paginate(entries(25), 10)
	require.Len(t, pages, 3)
	assert.Equal(t, []int{10, 10, 5}, []int{len(pages[0].Lines), len(pages[1].Lines), len(pages[2].Lines)})
	assert.Equal(t, 3, pages[2].Number)
	assert.Equal(t, "Person 0 — Inspector", pages[0].Lines[0].Text)
	assert.Equal(t, "    Person 2 — Inspector", pages[0].Lines[2].Indented())

	assert.Len(t, Paginate(entries(40), 0), 1)
	assert.Len(t, Paginate(entries(41), -1), 2)
}

func TestLineText_NoRole(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Solo", LineText(hierarchy.Entry{Person: hierarchy.Person{Name: "Solo"}}))
}

func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

func TestWritePDF(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := WritePDF(&buf, "Org Chart", entries(85), PDFOptions{LinesPerPage: 40, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", mimetype.Detect(buf.Bytes()).String())
	assert.Equal(t, 3, countPages(buf.Bytes()))
}

func TestWritePDF_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Org Chart", nil, PDFOptions{}))
	assert.Equal(t, 1, countPages(buf.Bytes()))
}

func isZipFamily(b []byte) bool {
	for m := mimetype.Detect(b); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries(4)))
	assert.True(t, isZipFamily(buf.Bytes()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, xlsxHeader, rows[0])
	assert.Equal(t, []string{"1", "Person 1", "Inspector", "p0"}, rows[2])
}
