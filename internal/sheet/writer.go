package sheet

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet every exported workbook contains.
const DefaultSheetName = "Sheet1"

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// WriteWorkbook writes headers and rows to w as a single-sheet xlsx file.
// Every cell is written as text.
func WriteWorkbook(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(DefaultSheetName)
	if err != nil {
		return errors.Wrap(err, "failed to create stream writer")
	}

	for i, width := range columnWidths(headers, rows) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return errors.Wrapf(err, "failed to set width of column %d", i+1)
		}
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection: []excelize.Selection{
			{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"},
		},
	}); err != nil {
		return errors.Wrap(err, "failed to freeze header row")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}

	if err := sw.SetRow("A1", header); err != nil {
		return errors.Wrap(err, "failed to write header row")
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errors.Wrapf(err, "row %d", r+2)
		}

		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}

		if err := sw.SetRow(cell, values); err != nil {
			return errors.Wrapf(err, "failed to write row %d", r+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush sheet")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}

	return nil
}

// WorkbookBytes renders a workbook in memory.
func WorkbookBytes(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, headers, rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func columnWidths(headers []string, rows [][]string) []float64 {
	widths := make([]float64, len(headers))
	for i, h := range headers {
		widths[i] = float64(runewidth.StringWidth(h))
	}

	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) {
				break
			}

			if w := float64(runewidth.StringWidth(v)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i, w := range widths {
		widths[i] = min(max(w+2, minColumnWidth), maxColumnWidth)
	}

	return widths
}
