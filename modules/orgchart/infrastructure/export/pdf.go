package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-pdf/fpdf"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

type PDFOptions struct {
	LinesPerPage int
	// CreatedAt pins the document date; zero uses the current time.
	CreatedAt time.Time
}

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
	pdfMargin     = 15.0
)

// WritePDF lays the listing out one person per line, starting a new page
// after LinesPerPage lines.
func WritePDF(w io.Writer, title string, entries []hierarchy.Entry, opts PDFOptions) error {
	pages := Paginate(entries, opts.LinesPerPage)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("simple-lms console", true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
		pdf.SetModificationDate(opts.CreatedAt)
	}
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if len(pages) == 0 {
		pdf.AddPage()
		writeHeading(pdf, tr(title))
		pdf.SetFont(pdfFont, "", 11)
		pdf.CellFormat(0, pdfLineHeight, tr("No results"), "", 1, "L", false, 0, "")
	}
	for _, page := range pages {
		pdf.AddPage()
		writeHeading(pdf, tr(title))
		pdf.SetFont(pdfFont, "", 11)
		for _, line := range page.Lines {
			pdf.SetX(pdfMargin + float64(line.Depth)*6)
			pdf.CellFormat(0, pdfLineHeight, tr(line.Text), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}

func writeHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}
