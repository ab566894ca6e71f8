package lazysheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Column is a resolved column definition. The layout engine only reads it.
type Column[T any] struct {
	// Order is the 1-based placement key assigned by the sheet builder.
	Order int
	// Field is the bound struct field, empty for computed columns.
	Field  string
	Header string
	// Width is a fixed width in characters; 0 means auto-size.
	Width    int
	Style    CellStyle
	Subtotal bool
	// Formula is written as-is into every data cell of the column.
	Formula            string
	Value              func(T) interface{}
	ConditionalFormats []excelize.ConditionalFormatOptions
	DataValidation     func(*excelize.DataValidation) error
}

func (c *Column[T]) hasCustomFormat() bool {
	return !c.Style.HasNumberFormat && c.Style.CustomFormat != ""
}

// ColumnOption configures a column through its builder.
type ColumnOption[T any] func(*ColumnBuilder[T])

// ColumnBuilder overrides column settings. Every call replaces the previous
// value of the setting it touches, tag defaults included.
type ColumnBuilder[T any] struct {
	col  *Column[T]
	errs []error
}

// Header renames the column. An empty header is rejected and the previous
// one is kept.
func (b *ColumnBuilder[T]) Header(header string) *ColumnBuilder[T] {
	if header == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: column %d: header must not be empty", ErrInvalidOperation, b.col.Order))
		return b
	}
	b.col.Header = header
	return b
}

func (b *ColumnBuilder[T]) Width(width int) *ColumnBuilder[T] {
	b.col.Width = width
	return b
}

// Format selects a predefined number format, replacing any custom format.
func (b *ColumnBuilder[T]) Format(format NumberFormat) *ColumnBuilder[T] {
	b.col.Style.NumberFormat = format
	b.col.Style.HasNumberFormat = true
	b.col.Style.CustomFormat = ""
	return b
}

// CustomFormat sets a custom number format code, replacing any predefined
// format. Boolean values in the column are written as 1 and 0.
func (b *ColumnBuilder[T]) CustomFormat(code string) *ColumnBuilder[T] {
	b.col.Style.CustomFormat = code
	b.col.Style.HasNumberFormat = false
	b.col.Style.NumberFormat = FormatGeneral
	return b
}

func (b *ColumnBuilder[T]) Align(h HorizontalAlignment) *ColumnBuilder[T] {
	b.col.Style.Horizontal = h
	return b
}

func (b *ColumnBuilder[T]) VAlign(v VerticalAlignment) *ColumnBuilder[T] {
	b.col.Style.Vertical = v
	return b
}

func (b *ColumnBuilder[T]) Alignment(h HorizontalAlignment, v VerticalAlignment) *ColumnBuilder[T] {
	b.col.Style.Horizontal = h
	b.col.Style.Vertical = v
	return b
}

// Formula sets an A1 formula written into every data cell of the column.
func (b *ColumnBuilder[T]) Formula(a1 string) *ColumnBuilder[T] {
	b.col.Formula = a1
	return b
}

// Subtotal adds a filter-aware sum of the column above the header.
func (b *ColumnBuilder[T]) Subtotal() *ColumnBuilder[T] {
	b.col.Subtotal = true
	return b
}

func (b *ColumnBuilder[T]) NoSubtotal() *ColumnBuilder[T] {
	b.col.Subtotal = false
	return b
}

// Value replaces the extractor that produces the cell value of a record.
func (b *ColumnBuilder[T]) Value(fn func(T) interface{}) *ColumnBuilder[T] {
	b.col.Value = fn
	return b
}

// Static writes the same value in every data row.
func (b *ColumnBuilder[T]) Static(v interface{}) *ColumnBuilder[T] {
	b.col.Value = func(T) interface{} { return v }
	return b
}

// ConditionalFormat attaches conditional formats to the column's data range.
func (b *ColumnBuilder[T]) ConditionalFormat(opts ...excelize.ConditionalFormatOptions) *ColumnBuilder[T] {
	b.col.ConditionalFormats = opts
	return b
}

// DataValidation configures a validation rule over the column's data range.
// The validation's range is already set when fn runs.
func (b *ColumnBuilder[T]) DataValidation(fn func(*excelize.DataValidation) error) *ColumnBuilder[T] {
	b.col.DataValidation = fn
	return b
}
