package lazysheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/lazysheet/pkg/cellref"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultTableStyle   = "TableStyleMedium2"
	DefaultMaxAutoWidth = 60
	DefaultMinAutoWidth = 8
)

// Config holds the document settings shared by every sheet of a workbook.
type Config struct {
	// TableStyle names the built-in table style applied to every table.
	TableStyle string
	// MaxAutoWidth caps auto-sized column widths.
	MaxAutoWidth float64
	// MinAutoWidth is the narrowest auto-sized column.
	MinAutoWidth float64
}

// Option adjusts the document Config.
type Option func(cfg *Config) error

func WithTableStyle(name string) Option {
	return func(cfg *Config) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("table style name is empty")
		}
		cfg.TableStyle = name
		return nil
	}
}

func WithMaxAutoWidth(width float64) Option {
	return func(cfg *Config) error {
		if width <= 0 {
			return fmt.Errorf("max auto width must be positive, got %v", width)
		}
		cfg.MaxAutoWidth = width
		return nil
	}
}

func WithMinAutoWidth(width float64) Option {
	return func(cfg *Config) error {
		if width < 0 {
			return fmt.Errorf("min auto width must not be negative, got %v", width)
		}
		cfg.MinAutoWidth = width
		return nil
	}
}

// ExcelDocument implements Document on an excelize workbook.
type ExcelDocument struct {
	file   *excelize.File
	cfg    Config
	sheets int
	tables int
	styles map[CellStyle]int
}

// NewExcelDocument creates an empty workbook.
func NewExcelDocument(opts ...Option) (*ExcelDocument, error) {
	cfg := Config{
		TableStyle:   DefaultTableStyle,
		MaxAutoWidth: DefaultMaxAutoWidth,
		MinAutoWidth: DefaultMinAutoWidth,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if cfg.MinAutoWidth > cfg.MaxAutoWidth {
		return nil, fmt.Errorf("min auto width %v exceeds max auto width %v", cfg.MinAutoWidth, cfg.MaxAutoWidth)
	}
	return &ExcelDocument{
		file:   excelize.NewFile(),
		cfg:    cfg,
		styles: make(map[CellStyle]int),
	}, nil
}

// File exposes the underlying workbook.
func (d *ExcelDocument) File() *excelize.File {
	return d.file
}

// SheetList returns the worksheet names in workbook order.
func (d *ExcelDocument) SheetList() []string {
	return d.file.GetSheetList()
}

// AddSheet renames the default sheet for the first call and appends a new
// sheet afterwards.
func (d *ExcelDocument) AddSheet(name string) error {
	name = truncateSheetName(name)
	if d.sheets == 0 {
		if err := d.file.SetSheetName(d.file.GetSheetName(0), name); err != nil {
			return err
		}
		d.sheets++
		return nil
	}
	if idx, err := d.file.GetSheetIndex(name); err != nil {
		return err
	} else if idx != -1 {
		return fmt.Errorf("%w: sheet %q already exists", ErrInvalidOperation, name)
	}
	if _, err := d.file.NewSheet(name); err != nil {
		return err
	}
	d.sheets++
	return nil
}

func (d *ExcelDocument) WriteRows(sheet string, topLeft cellref.Position, rows [][]interface{}) error {
	for i := range rows {
		cell := topLeft.MoveBy(0, i).String()
		if err := d.file.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %s: %w", cell, err)
		}
	}
	return nil
}

// AddTable registers a styled table. excelize always gives tables a filter
// button row, so autoFilter cannot switch it off.
func (d *ExcelDocument) AddTable(sheet string, from, to cellref.Position, autoFilter bool) error {
	d.tables++
	return d.file.AddTable(sheet, &excelize.Table{
		Range:     cellref.Range(from, to),
		Name:      fmt.Sprintf("Table%d", d.tables),
		StyleName: d.cfg.TableStyle,
	})
}

func (d *ExcelDocument) SetFormula(sheet string, cell cellref.Position, formula string) error {
	return d.file.SetCellFormula(sheet, cell.String(), formula)
}

func (d *ExcelDocument) GetFormula(sheet string, cell cellref.Position) (string, error) {
	return d.file.GetCellFormula(sheet, cell.String())
}

func (d *ExcelDocument) SetColumnWidth(sheet string, column int, width float64) error {
	letter := cellref.NumberToLetter(column)
	return d.file.SetColWidth(sheet, letter, letter, width)
}

// AutoFitColumns sizes each of the first columns columns to its widest
// rendered value, bounded by MinAutoWidth and MaxAutoWidth. Empty columns
// keep the default width.
func (d *ExcelDocument) AutoFitColumns(sheet string, columns int) error {
	cols, err := d.file.GetCols(sheet)
	if err != nil {
		return err
	}
	for i := 0; i < columns && i < len(cols); i++ {
		widest := 0
		for _, value := range cols[i] {
			for _, line := range strings.Split(value, "\n") {
				widest = max(widest, runewidth.StringWidth(line))
			}
		}
		if widest == 0 {
			continue
		}
		width := float64(widest)*1.1 + 2
		width = min(max(width, d.cfg.MinAutoWidth), d.cfg.MaxAutoWidth)
		if err := d.SetColumnWidth(sheet, i+1, width); err != nil {
			return err
		}
	}
	return nil
}

func (d *ExcelDocument) ApplyStyle(sheet string, from, to cellref.Position, style CellStyle) error {
	id, ok := d.styles[style]
	if !ok {
		var err error
		id, err = d.file.NewStyle(style.toExcelize())
		if err != nil {
			return fmt.Errorf("create style: %w", err)
		}
		d.styles[style] = id
	}
	return d.file.SetCellStyle(sheet, from.String(), to.String(), id)
}

func (d *ExcelDocument) AddConditionalFormat(sheet string, from, to cellref.Position, opts []excelize.ConditionalFormatOptions) error {
	return d.file.SetConditionalFormat(sheet, cellref.Range(from, to), opts)
}

func (d *ExcelDocument) AddDataValidation(sheet string, from, to cellref.Position, configure func(*excelize.DataValidation) error) error {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = cellref.Range(from, to)
	if err := configure(dv); err != nil {
		return fmt.Errorf("configure data validation: %w", err)
	}
	return d.file.AddDataValidation(sheet, dv)
}

func (d *ExcelDocument) Freeze(sheet string, rows, columns int) error {
	pane := "bottomRight"
	switch {
	case columns == 0:
		pane = "bottomLeft"
	case rows == 0:
		pane = "topRight"
	}
	return d.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      columns,
		YSplit:      rows,
		TopLeftCell: cellref.New(columns+1, rows+1).String(),
		ActivePane:  pane,
	})
}

func (d *ExcelDocument) Write(w io.Writer) error {
	return d.file.Write(w)
}

// SaveAs writes the workbook to path.
func (d *ExcelDocument) SaveAs(path string) error {
	return d.file.SaveAs(path)
}

func (d *ExcelDocument) Close() error {
	return d.file.Close()
}
