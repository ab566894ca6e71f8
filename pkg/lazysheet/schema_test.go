package lazysheet

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExcelTag(t *testing.T) {
	opts, err := parseExcelTag(`header:Unit Price, order:4 ,width:12,align:right,valign:top,subtotal,format:"£"#,##0.00`)
	require.NoError(t, err)
	assert.Equal(t, "Unit Price", opts.header)
	assert.True(t, opts.hasOrder)
	assert.Equal(t, 4, opts.order)
	assert.Equal(t, 12, opts.width)
	assert.Equal(t, AlignRight, opts.align)
	assert.Equal(t, VAlignTop, opts.valign)
	assert.True(t, opts.subtotal)
	assert.Equal(t, `"£"#,##0.00`, opts.custom, "format keeps the commas of its code")
	assert.False(t, opts.hasNumFmt)
}

func TestParseExcelTagNumberFormat(t *testing.T) {
	opts, err := parseExcelTag("numfmt:DecimalWithComma")
	require.NoError(t, err)
	assert.True(t, opts.hasNumFmt)
	assert.Equal(t, FormatDecimalWithComma, opts.numFmt)

	opts, err = parseExcelTag("numfmt:14")
	require.NoError(t, err)
	assert.Equal(t, FormatDate, opts.numFmt)

	opts, err = parseExcelTag("numfmt:3,format:0.0")
	require.NoError(t, err)
	assert.False(t, opts.hasNumFmt, "the later format replaces numfmt")
	assert.Equal(t, "0.0", opts.custom)
}

func TestParseExcelTagIgnoreAndErrors(t *testing.T) {
	opts, err := parseExcelTag("-")
	require.NoError(t, err)
	assert.True(t, opts.ignore)

	opts, err = parseExcelTag("")
	require.NoError(t, err)
	assert.Equal(t, tagOptions{}, opts)

	for _, tag := range []string{"order:x", "width:-3", "numfmt:Bogus", "align:sideways", "colour:red"} {
		_, err := parseExcelTag(tag)
		assert.Error(t, err, tag)
	}
}

type orderedRecord struct {
	Second string `excel:"order:1"`
	First  string `excel:"order:0"`
}

func TestOrderedFieldsUsesExplicitKeys(t *testing.T) {
	rt, err := resolveRecordType(reflect.TypeFor[orderedRecord]())
	require.NoError(t, err)

	fields := rt.orderedFields()
	require.Len(t, fields, 2)
	assert.Equal(t, "First", fields[0].name)
	assert.Equal(t, "Second", fields[1].name)
}

type mixedRecord struct {
	A      string
	Hidden string `excel:"-"`
	B      string
	C      string `excel:"order:0"`
	secret string
}

func TestOrderedFieldsDefaultsToDeclarationIndex(t *testing.T) {
	rt, err := resolveRecordType(reflect.TypeFor[mixedRecord]())
	require.NoError(t, err)

	var names []string
	for _, f := range rt.orderedFields() {
		names = append(names, f.name)
	}
	// A has key 0, B key 1, C explicit 0; the stable sort keeps A before C.
	assert.Equal(t, []string{"A", "C", "B"}, names)
}

type audit struct {
	CreatedBy string `excel:"header:Created By"`
}

type embeddingRecord struct {
	ID int
	audit
	*Extra
}

type Extra struct {
	Note string
}

func TestResolveRecordTypePromotedFields(t *testing.T) {
	rt, err := resolveRecordType(reflect.TypeFor[*embeddingRecord]())
	require.NoError(t, err)

	var names []string
	for _, f := range rt.fields {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{"ID", "CreatedBy", "Note"}, names)

	created, ok := rt.field("CreatedBy")
	require.True(t, ok)
	value := fieldValue[*embeddingRecord](created.index)
	assert.Equal(t, "ops", value(&embeddingRecord{audit: audit{CreatedBy: "ops"}}))
	assert.Nil(t, value(nil))

	note, ok := rt.field("Note")
	require.True(t, ok)
	assert.Nil(t, fieldValue[*embeddingRecord](note.index)(&embeddingRecord{}), "nil embedded pointer")
}

func TestResolveRecordTypeRejectsNonStruct(t *testing.T) {
	_, err := resolveRecordType(reflect.TypeFor[int]())
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = resolveRecordType(reflect.TypeFor[map[string]int]())
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

type badTagRecord struct {
	Price float64 `excel:"numfmt:nope"`
}

func TestResolveRecordTypeBadTag(t *testing.T) {
	_, err := resolveRecordType(reflect.TypeFor[badTagRecord]())
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Contains(t, err.Error(), "Price")
}
