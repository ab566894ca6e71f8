package lazysheet

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/locvowork/lazysheet/pkg/cellref"
)

// SheetBuilder accumulates the columns and layout settings of one
// worksheet. It is not safe for concurrent use.
type SheetBuilder[T any] struct {
	workbook *WorkbookBuilder
	name     string
	columns  []*Column[T]
	// nextOrder numbers columns in the order they are added.
	nextOrder     int
	freezeRows    int
	freezeColumns int
	rows          func() []T
	record        *recordType
	errs          []error
}

// AddSheet appends a worksheet over records to the workbook.
func AddSheet[T any](wb *WorkbookBuilder, records []T) *SheetBuilder[T] {
	return addSheet(wb, func() []T { return records })
}

// AddSheetSeq appends a worksheet over a lazily produced sequence. The
// sequence is drained once, when the workbook is built.
func AddSheetSeq[T any](wb *WorkbookBuilder, seq iter.Seq[T]) *SheetBuilder[T] {
	return addSheet(wb, func() []T { return slices.Collect(seq) })
}

func addSheet[T any](wb *WorkbookBuilder, rows func() []T) *SheetBuilder[T] {
	sb := &SheetBuilder[T]{workbook: wb, nextOrder: 1, rows: rows}
	wb.sheets = append(wb.sheets, sb)
	return sb
}

func (sb *SheetBuilder[T]) recordType() (*recordType, error) {
	if sb.record != nil {
		return sb.record, nil
	}
	rt, err := resolveRecordType(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	sb.record = rt
	return rt, nil
}

func (sb *SheetBuilder[T]) fail(err error) *SheetBuilder[T] {
	sb.errs = append(sb.errs, err)
	return sb
}

func (sb *SheetBuilder[T]) takeOrder() int {
	order := sb.nextOrder
	sb.nextOrder++
	return order
}

// AllFields adds a column for every exported field of T that is not tagged
// `excel:"-"`, ordered by the order tag or else by declaration.
func (sb *SheetBuilder[T]) AllFields() *SheetBuilder[T] {
	rt, err := sb.recordType()
	if err != nil {
		return sb.fail(err)
	}
	for _, f := range rt.orderedFields() {
		sb.columns = append(sb.columns, fieldColumn[T](f, sb.takeOrder()))
	}
	return sb
}

// Column adds a column bound to the named field of T. It starts from the
// field's tag settings; opts are applied after, in order.
func (sb *SheetBuilder[T]) Column(field string, opts ...ColumnOption[T]) *SheetBuilder[T] {
	rt, err := sb.recordType()
	if err != nil {
		return sb.fail(err)
	}
	f, ok := rt.field(field)
	if !ok {
		return sb.fail(fmt.Errorf("%w: %s has no exported field %q", ErrInvalidOperation, rt.typ, field))
	}
	col := fieldColumn[T](f, sb.takeOrder())
	if err := applyColumnOptions(col, opts); err != nil {
		sb.fail(err)
	}
	sb.columns = append(sb.columns, col)
	return sb
}

// Computed adds a column that is not bound to a field. Its header defaults
// to "Column N" where N is the column's order; set a value with
// ColumnBuilder.Value or ColumnBuilder.Static.
func (sb *SheetBuilder[T]) Computed(opts ...ColumnOption[T]) *SheetBuilder[T] {
	order := sb.takeOrder()
	col := &Column[T]{
		Order:  order,
		Header: fmt.Sprintf("Column %d", order),
		Value:  func(T) interface{} { return nil },
	}
	if err := applyColumnOptions(col, opts); err != nil {
		sb.fail(err)
	}
	sb.columns = append(sb.columns, col)
	return sb
}

// Configure applies opts to the most recently added column bound to field.
// The column keeps its order.
func (sb *SheetBuilder[T]) Configure(field string, opts ...ColumnOption[T]) *SheetBuilder[T] {
	for i := len(sb.columns) - 1; i >= 0; i-- {
		if sb.columns[i].Field == field {
			if err := applyColumnOptions(sb.columns[i], opts); err != nil {
				return sb.fail(err)
			}
			return sb
		}
	}
	return sb.fail(fmt.Errorf("%w: no column bound to field %q", ErrInvalidOperation, field))
}

// Remove drops every column bound to field. Remaining columns keep their order.
func (sb *SheetBuilder[T]) Remove(field string) *SheetBuilder[T] {
	sb.columns = slices.DeleteFunc(sb.columns, func(c *Column[T]) bool { return c.Field == field })
	return sb
}

// RemoveHeader drops every column whose resolved header equals header.
func (sb *SheetBuilder[T]) RemoveHeader(header string) *SheetBuilder[T] {
	sb.columns = slices.DeleteFunc(sb.columns, func(c *Column[T]) bool { return c.Header == header })
	return sb
}

// Name sets the worksheet name, truncated to MaxSheetNameLength characters.
func (sb *SheetBuilder[T]) Name(name string) *SheetBuilder[T] {
	sb.name = truncateSheetName(name)
	return sb
}

// Freeze keeps the first rows and columns visible while scrolling.
func (sb *SheetBuilder[T]) Freeze(rows, columns int) *SheetBuilder[T] {
	sb.freezeRows = rows
	sb.freezeColumns = columns
	return sb
}

// FreezeAt freezes every row and column up to and including p.
func (sb *SheetBuilder[T]) FreezeAt(p cellref.Position) *SheetBuilder[T] {
	return sb.Freeze(p.Row, p.Column)
}

// Columns returns the current column list sorted by order.
func (sb *SheetBuilder[T]) Columns() []Column[T] {
	out := make([]Column[T], len(sb.columns))
	for i, c := range sb.columns {
		out[i] = *c
	}
	slices.SortStableFunc(out, func(a, b Column[T]) int { return a.Order - b.Order })
	return out
}

// Build ends the sheet definition and returns the owning workbook.
func (sb *SheetBuilder[T]) Build() *WorkbookBuilder {
	return sb.workbook
}

// applyColumnOptions runs opts against col and returns the settings they
// rejected.
func applyColumnOptions[T any](col *Column[T], opts []ColumnOption[T]) error {
	b := &ColumnBuilder[T]{col: col}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return errors.Join(b.errs...)
}

func (sb *SheetBuilder[T]) sheetName(position int) string {
	if sb.name != "" {
		return sb.name
	}
	return fmt.Sprintf("Sheet %d", position)
}

func (sb *SheetBuilder[T]) layout(ctx context.Context, doc Document, name string) error {
	if err := errors.Join(sb.errs...); err != nil {
		return sheetError(name, "columns", err)
	}
	spec := sheetSpec[T]{
		name:          name,
		columns:       sb.Columns(),
		freezeRows:    sb.freezeRows,
		freezeColumns: sb.freezeColumns,
	}
	return spec.layout(ctx, doc, sb.rows())
}
