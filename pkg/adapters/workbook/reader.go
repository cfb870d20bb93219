// Package workbook reads the multi-sheet project listing export and
// normalizes its loosely-typed tables into the canonical entity schema.
package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/models"
)

// RawTable is one sheet as read from the workbook: a header row plus
// data rows of formatted cell text. Rows may be shorter than the header
// when trailing cells are empty.
type RawTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// RawWorkbook holds the up-to-four raw tables of one export. A nil
// table means the sheet was absent and the corresponding entity
// collection is inactive.
type RawWorkbook struct {
	Projects *RawTable
	Roles    *RawTable
	Events   *RawTable
	Products *RawTable
}

// Reader opens workbook exports from disk.
type Reader interface {
	// Read parses the file at path into its raw tables. An unreadable
	// file is a load failure; absent sheets are not.
	Read(path string) (*RawWorkbook, error)
}

// XLSXReader reads .xlsx exports using excelize.
type XLSXReader struct{}

// NewXLSXReader creates a Reader for .xlsx files.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Read opens the workbook and extracts the four known sheets by name.
func (r *XLSXReader) Read(path string) (*RawWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", apperrors.ErrLoadFailed, path, err)
	}
	defer f.Close()

	wb := &RawWorkbook{}
	if wb.Projects, err = readSheet(f, models.SheetProjects); err != nil {
		return nil, err
	}
	if wb.Roles, err = readSheet(f, models.SheetRoles); err != nil {
		return nil, err
	}
	if wb.Events, err = readSheet(f, models.SheetEvents); err != nil {
		return nil, err
	}
	if wb.Products, err = readSheet(f, models.SheetProducts); err != nil {
		return nil, err
	}
	return wb, nil
}

// readSheet returns nil (no error) when the sheet does not exist.
func readSheet(f *excelize.File, name string) (*RawTable, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", apperrors.ErrLoadFailed, name, err)
	}
	if len(rows) == 0 {
		return &RawTable{Name: name}, nil
	}

	return &RawTable{
		Name:    name,
		Headers: rows[0],
		Rows:    rows[1:],
	}, nil
}

var _ Reader = (*XLSXReader)(nil)
