package lazysheet

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/locvowork/lazysheet/internal/logger"
	"github.com/locvowork/lazysheet/pkg/cellref"
)

// sheetSpec is the frozen form of a SheetBuilder: columns sorted by order.
type sheetSpec[T any] struct {
	name          string
	columns       []Column[T]
	freezeRows    int
	freezeColumns int
}

// layout writes the sheet onto doc. With any subtotal column, row 1 holds
// the subtotals and the header moves to row 2; data follows the header.
// Columns are placed left to right in list order.
func (s *sheetSpec[T]) layout(ctx context.Context, doc Document, records []T) error {
	if err := doc.AddSheet(s.name); err != nil {
		return sheetError(s.name, "add sheet", err)
	}

	hasSubtotalRow := slices.ContainsFunc(s.columns, func(c Column[T]) bool { return c.Subtotal })
	header := cellref.New(1, 1)
	if hasSubtotalRow {
		header = cellref.New(1, 2)
	}
	dataStart := header.MoveBy(0, 1)

	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Header
	}
	headers := make([]interface{}, len(s.columns))
	for i, h := range uniqueHeaders(names) {
		headers[i] = h
	}
	if err := doc.WriteRows(s.name, header, [][]interface{}{headers}); err != nil {
		return sheetError(s.name, "header", err)
	}

	matrix := make([][]interface{}, len(records))
	for r, record := range records {
		row := make([]interface{}, len(s.columns))
		for i := range s.columns {
			row[i] = s.columns[i].cellValue(record)
		}
		matrix[r] = row
	}
	if len(matrix) > 0 {
		if err := doc.WriteRows(s.name, dataStart, matrix); err != nil {
			return sheetError(s.name, "data", err)
		}
	}

	lastRow := dataStart.Row + len(records) - 1
	if len(records) == 0 {
		// Header plus one empty row keeps the table well formed.
		lastRow = dataStart.Row
		end := header.MoveBy(max(len(s.columns)-1, 0), 1)
		if err := doc.AddTable(s.name, header, end, false); err != nil {
			return sheetError(s.name, "table", err)
		}
	} else {
		for i := range s.columns {
			from := cellref.New(i+1, dataStart.Row)
			to := cellref.New(i+1, lastRow)
			if err := s.styleColumn(doc, &s.columns[i], from, to); err != nil {
				return sheetError(s.name, "style", err)
			}
		}
		end := cellref.New(max(len(s.columns), 1), lastRow)
		if err := doc.AddTable(s.name, header, end, true); err != nil {
			return sheetError(s.name, "table", err)
		}
	}

	if err := doc.AutoFitColumns(s.name, len(s.columns)); err != nil {
		return sheetError(s.name, "auto-fit", err)
	}
	for i, c := range s.columns {
		if c.Width > 0 {
			if err := doc.SetColumnWidth(s.name, i+1, float64(c.Width)); err != nil {
				return sheetError(s.name, "width", err)
			}
		}
	}

	if hasSubtotalRow {
		for i, c := range s.columns {
			if !c.Subtotal {
				continue
			}
			cell := cellref.New(i+1, header.Row-1)
			formula := fmt.Sprintf("SUBTOTAL(9,%s)", cellref.Range(
				cellref.New(i+1, dataStart.Row), cellref.New(i+1, lastRow)))
			if err := doc.SetFormula(s.name, cell, formula); err != nil {
				return sheetError(s.name, "subtotal", err)
			}
			if !c.Style.IsZero() {
				if err := doc.ApplyStyle(s.name, cell, cell, c.Style); err != nil {
					return sheetError(s.name, "subtotal", err)
				}
			}
		}
	}

	if s.freezeRows > 0 || s.freezeColumns > 0 {
		if err := doc.Freeze(s.name, s.freezeRows, s.freezeColumns); err != nil {
			return sheetError(s.name, "freeze", err)
		}
	}

	logger.DebugLog(ctx, "laid out sheet %q: %d columns, %d rows, subtotals=%t",
		s.name, len(s.columns), len(records), hasSubtotalRow)
	return nil
}

// uniqueHeaders renames repeated headers so table column names stay distinct:
// the second "Name" becomes "Name2", the third "Name3". Case is ignored.
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := h
		for n := 2; seen[strings.ToLower(name)]; n++ {
			name = h + strconv.Itoa(n)
		}
		seen[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

// styleColumn applies a column's settings to its data range [from, to].
func (s *sheetSpec[T]) styleColumn(doc Document, c *Column[T], from, to cellref.Position) error {
	if !c.Style.IsZero() {
		if err := doc.ApplyStyle(s.name, from, to, c.Style); err != nil {
			return err
		}
	}
	if c.Formula != "" {
		for row := from.Row; row <= to.Row; row++ {
			if err := doc.SetFormula(s.name, cellref.New(from.Column, row), c.Formula); err != nil {
				return err
			}
		}
	}
	if len(c.ConditionalFormats) > 0 {
		if err := doc.AddConditionalFormat(s.name, from, to, c.ConditionalFormats); err != nil {
			return err
		}
	}
	if c.DataValidation != nil {
		if err := doc.AddDataValidation(s.name, from, to, c.DataValidation); err != nil {
			return err
		}
	}
	return nil
}

func (c *Column[T]) cellValue(record T) interface{} {
	if c.Value == nil {
		return nil
	}
	v := derefValue(c.Value(record))
	if b, ok := v.(bool); ok && c.hasCustomFormat() {
		if b {
			return 1
		}
		return 0
	}
	return v
}

// derefValue unwraps pointers; nil pointers become empty cells.
func derefValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}
