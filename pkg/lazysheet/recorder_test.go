package lazysheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/locvowork/lazysheet/pkg/cellref"
	"github.com/xuri/excelize/v2"
)

type tableCall struct {
	sheet      string
	ref        string
	autoFilter bool
}

type styleCall struct {
	sheet string
	ref   string
	style CellStyle
}

// recordingDocument is an in-memory Document that logs every call.
type recordingDocument struct {
	sheets      []string
	values      map[string]interface{}
	formulas    map[string]string
	widths      map[string]float64
	tables      []tableCall
	styles      []styleCall
	conditional []string
	validations []*excelize.DataValidation
	freezes     []string
	ops         []string
	failOn      string
}

func newRecordingDocument() *recordingDocument {
	return &recordingDocument{
		values:   make(map[string]interface{}),
		formulas: make(map[string]string),
		widths:   make(map[string]float64),
	}
}

var errInjected = errors.New("injected failure")

func (d *recordingDocument) record(op string) error {
	d.ops = append(d.ops, op)
	if d.failOn == op {
		return errInjected
	}
	return nil
}

func cellKey(sheet string, p cellref.Position) string {
	return sheet + "!" + p.String()
}

func (d *recordingDocument) AddSheet(name string) error {
	if err := d.record("sheet"); err != nil {
		return err
	}
	d.sheets = append(d.sheets, truncateSheetName(name))
	return nil
}

func (d *recordingDocument) WriteRows(sheet string, topLeft cellref.Position, rows [][]interface{}) error {
	if err := d.record("rows"); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			d.values[cellKey(sheet, topLeft.MoveBy(c, r))] = v
		}
	}
	return nil
}

func (d *recordingDocument) AddTable(sheet string, from, to cellref.Position, autoFilter bool) error {
	if err := d.record("table"); err != nil {
		return err
	}
	d.tables = append(d.tables, tableCall{sheet: sheet, ref: cellref.Range(from, to), autoFilter: autoFilter})
	return nil
}

func (d *recordingDocument) SetFormula(sheet string, cell cellref.Position, formula string) error {
	if err := d.record("formula"); err != nil {
		return err
	}
	d.formulas[cellKey(sheet, cell)] = formula
	return nil
}

func (d *recordingDocument) GetFormula(sheet string, cell cellref.Position) (string, error) {
	return d.formulas[cellKey(sheet, cell)], nil
}

func (d *recordingDocument) SetColumnWidth(sheet string, column int, width float64) error {
	if err := d.record("width"); err != nil {
		return err
	}
	d.widths[sheet+"!"+cellref.NumberToLetter(column)] = width
	return nil
}

// AutoFitColumns pretends every column needs width 8.
func (d *recordingDocument) AutoFitColumns(sheet string, columns int) error {
	if err := d.record("autofit"); err != nil {
		return err
	}
	for c := 1; c <= columns; c++ {
		d.widths[sheet+"!"+cellref.NumberToLetter(c)] = 8
	}
	return nil
}

func (d *recordingDocument) ApplyStyle(sheet string, from, to cellref.Position, style CellStyle) error {
	if err := d.record("style"); err != nil {
		return err
	}
	d.styles = append(d.styles, styleCall{sheet: sheet, ref: cellref.Range(from, to), style: style})
	return nil
}

func (d *recordingDocument) AddConditionalFormat(sheet string, from, to cellref.Position, opts []excelize.ConditionalFormatOptions) error {
	if err := d.record("conditional"); err != nil {
		return err
	}
	d.conditional = append(d.conditional, fmt.Sprintf("%s!%s:%d", sheet, cellref.Range(from, to), len(opts)))
	return nil
}

func (d *recordingDocument) AddDataValidation(sheet string, from, to cellref.Position, configure func(*excelize.DataValidation) error) error {
	if err := d.record("validation"); err != nil {
		return err
	}
	dv := excelize.NewDataValidation(true)
	dv.Sqref = cellref.Range(from, to)
	if err := configure(dv); err != nil {
		return err
	}
	d.validations = append(d.validations, dv)
	return nil
}

func (d *recordingDocument) Freeze(sheet string, rows, columns int) error {
	if err := d.record("freeze"); err != nil {
		return err
	}
	d.freezes = append(d.freezes, fmt.Sprintf("%s:%d,%d", sheet, rows, columns))
	return nil
}

func (d *recordingDocument) Write(io.Writer) error { return nil }

func (d *recordingDocument) Close() error { return nil }

func (d *recordingDocument) opIndex(op string) int {
	for i, o := range d.ops {
		if o == op {
			return i
		}
	}
	return -1
}

func (d *recordingDocument) lastOpIndex(op string) int {
	idx := -1
	for i, o := range d.ops {
		if o == op {
			idx = i
		}
	}
	return idx
}
