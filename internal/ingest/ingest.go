package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Accepted upload content types.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLS  = "application/vnd.ms-excel"
	ContentTypeCSV  = "text/csv"
)

// CSVSheetName is the synthetic sheet name for single-sheet CSV uploads.
const CSVSheetName = "Sheet1"

var (
	ErrInvalidFileType = errors.New("invalid file type, please upload Excel or CSV files only")
	ErrParseFailure    = errors.New("file could not be read as tabular data")
)

// Ingestor parses uploaded spreadsheet bytes into sheet names and cell
// grids. It is stateless and safe for concurrent use.
type Ingestor struct{}

func New() *Ingestor {
	return &Ingestor{}
}

// Supported reports whether the declared content type is one of the
// accepted tabular formats.
func (i *Ingestor) Supported(contentType string) bool {
	switch contentType {
	case ContentTypeXLSX, ContentTypeXLS, ContentTypeCSV:
		return true
	}
	return false
}

// SheetNames returns the workbook's sheet names in source order.
// CSV files always yield exactly one synthetic sheet name.
func (i *Ingestor) SheetNames(data []byte, contentType string) ([]string, error) {
	if !i.Supported(contentType) {
		return nil, ErrInvalidFileType
	}

	switch contentType {
	case ContentTypeCSV:
		// Validate that the payload parses at all before accepting it.
		if _, err := readCSV(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return []string{CSVSheetName}, nil

	case ContentTypeXLS:
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		names := make([]string, 0, wb.NumSheets())
		for n := 0; n < wb.NumSheets(); n++ {
			names = append(names, wb.GetSheet(n).Name)
		}
		return names, nil

	default: // xlsx
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		defer f.Close()
		return f.GetSheetList(), nil
	}
}

// Grids parses every sheet into a rectangular grid of cell values.
// Absent or blank cells come back as empty strings; row and column
// order match the source file, header row included.
func (i *Ingestor) Grids(data []byte, contentType string) (map[string][][]string, error) {
	if !i.Supported(contentType) {
		return nil, ErrInvalidFileType
	}

	switch contentType {
	case ContentTypeCSV:
		rows, err := readCSV(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return map[string][][]string{CSVSheetName: pad(rows)}, nil

	case ContentTypeXLS:
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		grids := make(map[string][][]string, wb.NumSheets())
		for n := 0; n < wb.NumSheets(); n++ {
			sheet := wb.GetSheet(n)
			grids[sheet.Name] = pad(xlsRows(sheet))
		}
		return grids, nil

	default: // xlsx
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		defer f.Close()
		grids := make(map[string][][]string, len(f.GetSheetList()))
		for _, name := range f.GetSheetList() {
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
			}
			grids[name] = pad(rows)
		}
		return grids, nil
	}
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are padded later
	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	if sheet == nil {
		return nil
	}
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows
}

// pad normalizes a ragged grid to a rectangle, filling short rows with
// empty strings so clients never see a missing-cell marker.
func pad(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
