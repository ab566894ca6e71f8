// Package lazysheet lays out typed records as spreadsheet tables. Columns are
// derived from struct tags or declared through builders; the package computes
// every cell coordinate, including an optional subtotal row above the header.
package lazysheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// worksheet is implemented by SheetBuilder for every record type.
type worksheet interface {
	sheetName(position int) string
	layout(ctx context.Context, doc Document, name string) error
}

// WorkbookBuilder collects worksheets in the order they are added.
type WorkbookBuilder struct {
	sheets []worksheet
	opts   []Option
}

// NewWorkbook returns an empty workbook. opts configure the document created
// by Build and the sinks built on it.
func NewWorkbook(opts ...Option) *WorkbookBuilder {
	return &WorkbookBuilder{opts: opts}
}

// FromRecords returns a workbook with one sheet holding every field of T.
func FromRecords[T any](records []T, opts ...Option) *WorkbookBuilder {
	wb := NewWorkbook(opts...)
	AddSheet(wb, records).AllFields()
	return wb
}

// SheetCount returns the number of worksheets added so far.
func (wb *WorkbookBuilder) SheetCount() int {
	return len(wb.sheets)
}

// BuildInto lays out every sheet on doc. The first failing sheet stops the
// build; sheets already written stay in doc.
func (wb *WorkbookBuilder) BuildInto(ctx context.Context, doc Document) error {
	seen := make(map[string]bool, len(wb.sheets))
	for i, s := range wb.sheets {
		name := s.sheetName(i + 1)
		key := strings.ToLower(name)
		if seen[key] {
			return sheetError(name, "add sheet", fmt.Errorf("%w: duplicate sheet name", ErrInvalidOperation))
		}
		seen[key] = true

		if err := s.layout(ctx, doc, name); err != nil {
			return err
		}
	}
	return nil
}

// Build lays the workbook out on a new ExcelDocument. The caller owns the
// returned document and must Close it.
func (wb *WorkbookBuilder) Build(ctx context.Context) (*ExcelDocument, error) {
	doc, err := NewExcelDocument(wb.opts...)
	if err != nil {
		return nil, err
	}
	if err := wb.BuildInto(ctx, doc); err != nil {
		return nil, errors.Join(err, doc.Close())
	}
	return doc, nil
}

// ToWriter builds the workbook and writes it to w.
func (wb *WorkbookBuilder) ToWriter(ctx context.Context, w io.Writer) (err error) {
	doc, err := wb.Build(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, doc.Close()) }()

	return doc.Write(w)
}

// ToBytes builds the workbook into an in-memory package.
func (wb *WorkbookBuilder) ToBytes(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.ToWriter(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToExcel builds the workbook and saves it at path.
func (wb *WorkbookBuilder) ExportToExcel(ctx context.Context, path string) (err error) {
	doc, err := wb.Build(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, doc.Close()) }()

	return doc.SaveAs(path)
}
