package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

const SheetName = "Org Chart"

var xlsxHeader = []string{"Level", "Name", "Role", "Manager ID", "Location ID"}

// WriteXLSX writes the listing as a spreadsheet, one row per person with the
// name cell indented by depth.
func WriteXLSX(w io.Writer, entries []hierarchy.Entry) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "header style")
	}
	for i, h := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", headerStyle); err != nil {
		return errors.Wrap(err, "style header")
	}

	indentStyles := map[int]int{}
	for i, e := range entries {
		row := i + 2
		values := []any{e.Depth, e.Person.Name, e.Person.RoleLabel, deref(e.Person.ManagerID), deref(e.Person.LocationID)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return errors.Wrapf(err, "write row %d", row)
			}
		}
		if e.Depth > 0 {
			style, ok := indentStyles[e.Depth]
			if !ok {
				style, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Indent: e.Depth}})
				if err != nil {
					return errors.Wrap(err, "indent style")
				}
				indentStyles[e.Depth] = style
			}
			cell, _ := excelize.CoordinatesToCellName(2, row)
			if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return errors.Wrap(err, "style row")
			}
		}
	}

	if err := f.SetColWidth(SheetName, "B", "C", 32); err != nil {
		return errors.Wrap(err, "column width")
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errors.Wrap(err, "freeze header")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
