package lazysheet

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type invoice struct {
	Number   string  `excel:"header:Invoice"`
	Customer string  `excel:"width:20"`
	Total    float64 `excel:"subtotal,numfmt:DecimalWithComma,align:right"`
	Paid     bool    `excel:"format:\"YES\";;\"NO\";"`
}

func invoices(n int) []invoice {
	out := make([]invoice, n)
	for i := range out {
		out[i] = invoice{Number: fmt.Sprintf("INV-%03d", i+1), Customer: "Acme", Total: 10, Paid: i%2 == 0}
	}
	return out
}

func buildFile(t *testing.T, wb *WorkbookBuilder) *excelize.File {
	t.Helper()
	doc, err := wb.Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc.File()
}

func TestBuildWritesSubtotalHeaderAndData(t *testing.T) {
	f := buildFile(t, FromRecords(invoices(100)))
	sheet := "Sheet 1"
	require.Equal(t, []string{sheet}, f.GetSheetList())

	formula, err := f.GetCellFormula(sheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, "SUBTOTAL(9,C3:C102)", formula)

	val, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Invoice", val)

	val, err = f.GetCellValue(sheet, "A102")
	require.NoError(t, err)
	assert.Equal(t, "INV-100", val)

	val, err = f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Empty(t, val, "subtotal row is sparse")
}

func TestBuildAppliesColumnStyles(t *testing.T) {
	f := buildFile(t, FromRecords(invoices(3)))
	sheet := "Sheet 1"

	styleID, err := f.GetCellStyle(sheet, "C3")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, int(FormatDecimalWithComma), style.NumFmt)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "right", style.Alignment.Horizontal)

	subtotalStyle, err := f.GetCellStyle(sheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, styleID, subtotalStyle, "subtotal cell shares the column style")

	headerStyle, err := f.GetCellStyle(sheet, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, styleID, headerStyle, "header is never styled")

	paidStyleID, err := f.GetCellStyle(sheet, "D3")
	require.NoError(t, err)
	paidStyle, err := f.GetStyle(paidStyleID)
	require.NoError(t, err)
	require.NotNil(t, paidStyle.CustomNumFmt)
	assert.Equal(t, `"YES";;"NO";`, *paidStyle.CustomNumFmt)
}

func TestBuildWritesBooleansAsNumbersForCustomFormats(t *testing.T) {
	f := buildFile(t, FromRecords(invoices(2)))

	raw, err := f.GetCellValue("Sheet 1", "D3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1", raw)
	raw, err = f.GetCellValue("Sheet 1", "D4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0", raw)
}

func TestBuildColumnWidths(t *testing.T) {
	f := buildFile(t, FromRecords(invoices(2)))

	width, err := f.GetColWidth("Sheet 1", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(20), width, "explicit width beats auto-size")

	width, err = f.GetColWidth("Sheet 1", "A")
	require.NoError(t, err)
	// "INV-001" is 7 cells wide.
	assert.InDelta(t, 7*1.1+2, width, 0.01)
}

func TestBuildAutoWidthIsCapped(t *testing.T) {
	wb := NewWorkbook(WithMaxAutoWidth(30))
	AddSheet(wb, []invoice{{Number: strings.Repeat("x", 200)}}).AllFields()
	f := buildFile(t, wb)

	width, err := f.GetColWidth("Sheet 1", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(30), width)
}

func TestBuildDefaultSheetNames(t *testing.T) {
	wb := NewWorkbook()
	AddSheet(wb, invoices(1)).AllFields()
	AddSheet(wb, invoices(1)).AllFields().Name("Customers")
	AddSheet(wb, invoices(1)).AllFields()

	f := buildFile(t, wb)
	assert.Equal(t, []string{"Sheet 1", "Customers", "Sheet 3"}, f.GetSheetList())
}

func TestBuildRejectsDuplicateSheetNames(t *testing.T) {
	wb := NewWorkbook()
	AddSheet(wb, invoices(1)).AllFields().Name("Data")
	AddSheet(wb, invoices(1)).AllFields().Name("data")

	_, err := wb.Build(context.Background())
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestBuildEmptyWorkbookKeepsTable(t *testing.T) {
	f := buildFile(t, FromRecords([]invoice{}))

	val, err := f.GetCellValue("Sheet 1", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Paid", val)

	formula, err := f.GetCellFormula("Sheet 1", "C1")
	require.NoError(t, err)
	assert.Equal(t, "SUBTOTAL(9,C3:C3)", formula)
}

func TestToBytesRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	AddSheet(wb, invoices(5)).AllFields().Name("Invoices").Freeze(2, 1)

	data, err := wb.ToBytes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoices"}, f.GetSheetList())
	val, err := f.GetCellValue("Invoices", "B7")
	require.NoError(t, err)
	assert.Equal(t, "Acme", val)
}

func TestExportToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices"+ExtensionWorkbook)
	require.NoError(t, FromRecords(invoices(2)).ExportToExcel(context.Background(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	val, err := f.GetCellValue("Sheet 1", "A3")
	require.NoError(t, err)
	assert.Equal(t, "INV-001", val)
}

func TestToWriterPropagatesLayoutErrors(t *testing.T) {
	wb := NewWorkbook()
	AddSheet(wb, invoices(1)).Column("Nope")

	var buf bytes.Buffer
	err := wb.ToWriter(context.Background(), &buf)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Zero(t, buf.Len())
}

func TestInvalidOptionsFailBuild(t *testing.T) {
	_, err := NewWorkbook(WithMaxAutoWidth(0)).Build(context.Background())
	assert.Error(t, err)

	_, err = NewWorkbook(WithTableStyle(" ")).Build(context.Background())
	assert.Error(t, err)

	_, err = NewWorkbook(WithMinAutoWidth(80)).Build(context.Background())
	assert.Error(t, err)
}

func TestFreezeOnlyRows(t *testing.T) {
	doc, err := NewExcelDocument()
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, doc.AddSheet("S"))
	assert.NoError(t, doc.Freeze("S", 1, 0))
	assert.NoError(t, doc.Freeze("S", 0, 2))
}

func TestExcelDocumentRejectsExistingSheet(t *testing.T) {
	doc, err := NewExcelDocument()
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, doc.AddSheet("One"))
	require.NoError(t, doc.AddSheet("Two"))
	assert.ErrorIs(t, doc.AddSheet("Two"), ErrInvalidOperation)
	assert.Equal(t, []string{"One", "Two"}, doc.SheetList())
}

func TestBuildRepeatedFieldGetsDistinctHeader(t *testing.T) {
	wb := NewWorkbook()
	AddSheet(wb, invoices(2)).AllFields().Column("Customer")
	f := buildFile(t, wb)

	for cell, want := range map[string]string{"B2": "Customer", "E2": "Customer2", "E3": "Acme"} {
		val, err := f.GetCellValue("Sheet 1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, val, cell)
	}
}
