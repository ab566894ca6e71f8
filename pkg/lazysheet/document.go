package lazysheet

import (
	"io"

	"github.com/locvowork/lazysheet/pkg/cellref"
	"github.com/xuri/excelize/v2"
)

// Document is the spreadsheet the layout engine writes to. ExcelDocument is
// the excelize-backed implementation; tests substitute recorders.
//
// Ranges are inclusive and given by their top-left and bottom-right cells.
type Document interface {
	// AddSheet creates a worksheet. Names longer than MaxSheetNameLength
	// are truncated.
	AddSheet(name string) error
	// WriteRows writes a rectangular matrix with its first value at topLeft.
	WriteRows(sheet string, topLeft cellref.Position, rows [][]interface{}) error
	// AddTable registers a table over the range. The first row is the header.
	AddTable(sheet string, from, to cellref.Position, autoFilter bool) error
	SetFormula(sheet string, cell cellref.Position, formula string) error
	GetFormula(sheet string, cell cellref.Position) (string, error)
	SetColumnWidth(sheet string, column int, width float64) error
	// AutoFitColumns sizes columns 1..columns to their content.
	AutoFitColumns(sheet string, columns int) error
	ApplyStyle(sheet string, from, to cellref.Position, style CellStyle) error
	AddConditionalFormat(sheet string, from, to cellref.Position, opts []excelize.ConditionalFormatOptions) error
	AddDataValidation(sheet string, from, to cellref.Position, configure func(*excelize.DataValidation) error) error
	// Freeze keeps the leading rows and columns visible while scrolling.
	Freeze(sheet string, rows, columns int) error
	Write(w io.Writer) error
	Close() error
}

// CellStyle is the per-column styling applied to data and subtotal cells.
// At most one of NumberFormat and CustomFormat is in effect; HasNumberFormat
// selects the predefined id.
type CellStyle struct {
	NumberFormat    NumberFormat
	HasNumberFormat bool
	CustomFormat    string
	Horizontal      HorizontalAlignment
	Vertical        VerticalAlignment
}

// IsZero reports whether the style would change nothing.
func (s CellStyle) IsZero() bool {
	return !s.HasNumberFormat && s.CustomFormat == "" && s.Horizontal == "" && s.Vertical == ""
}

func (s CellStyle) toExcelize() *excelize.Style {
	style := &excelize.Style{}
	switch {
	case s.HasNumberFormat:
		style.NumFmt = int(s.NumberFormat)
	case s.CustomFormat != "":
		custom := s.CustomFormat
		style.CustomNumFmt = &custom
	}
	if s.Horizontal != "" || s.Vertical != "" {
		style.Alignment = &excelize.Alignment{
			Horizontal: string(s.Horizontal),
			Vertical:   string(s.Vertical),
		}
	}
	return style
}

// MaxSheetNameLength is the longest worksheet name a workbook accepts.
const MaxSheetNameLength = 31

func truncateSheetName(name string) string {
	r := []rune(name)
	if len(r) > MaxSheetNameLength {
		return string(r[:MaxSheetNameLength])
	}
	return name
}
