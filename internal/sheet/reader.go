// Package sheet reads and writes spreadsheets as tables of text cells.
package sheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"pesertagen/internal/logger"
	"pesertagen/internal/models"
)

// Format is a supported spreadsheet file format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Reader errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrSheetNotFound     = errors.New("sheet not found")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Base(path)),
			"use an .xlsx or .csv file",
		)
	}
}

// Reader loads tables from spreadsheet files.
type Reader struct {
	logger *logger.Logger
}

// NewReader creates a new reader instance.
func NewReader(log *logger.Logger) *Reader {
	if log == nil {
		log = logger.NewNop()
	}

	return &Reader{logger: log}
}

// ListSheets returns the sheet names of a file in workbook order. A csv file
// has one sheet named after the file.
func (r *Reader) ListSheets(path string) ([]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatCSV {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, "failed to open file")
		}

		return []string{csvSheetName(path)}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// Read loads one sheet as a table. An empty sheet name selects the first sheet.
func (r *Reader) Read(path, sheetName string) (*models.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	var table *models.Table

	switch format {
	case FormatCSV:
		if sheetName != "" && sheetName != csvSheetName(path) {
			return nil, errors.Wrapf(ErrSheetNotFound, "%q in %s", sheetName, filepath.Base(path))
		}

		table, err = ReadCSV(file)
	default:
		table, err = ReadWorkbook(file, sheetName)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}

	r.logger.Debug("sheet loaded",
		"file", filepath.Base(path),
		"sheet", sheetName,
		"columns", len(table.Headers),
		"rows", table.Len(),
		"elapsed", time.Since(start),
	)

	return table, nil
}

// ReadWorkbook reads one sheet of an xlsx stream. Cells are returned as their
// stored text so numeric ids and date serials are not reformatted.
func ReadWorkbook(rd io.Reader, sheetName string) (*models.Table, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	name, err := resolveSheet(f.GetSheetList(), sheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", name)
	}

	return buildTable(rows), nil
}

// ReadCSV reads a comma separated stream. A leading UTF-8 BOM is ignored.
func ReadCSV(rd io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv")
	}

	return buildTable(rows), nil
}

func resolveSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.Wrap(ErrSheetNotFound, "workbook has no sheets")
	}

	if want == "" {
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}

	for _, s := range sheets {
		if strings.EqualFold(s, want) {
			return s, nil
		}
	}

	return "", errors.WithHintf(
		errors.Wrapf(ErrSheetNotFound, "%q", want),
		"available sheets: %s", strings.Join(sheets, ", "),
	)
}

// buildTable uses the first non-blank row as the header.
func buildTable(rows [][]string) *models.Table {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return models.NewTable(row, rows[i+1:])
			}
		}
	}

	return models.NewTable(nil, nil)
}

func csvSheetName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
