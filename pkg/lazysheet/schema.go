package lazysheet

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// TagName is the struct tag read when columns are derived from a record type.
//
//	type Book struct {
//		ISBN  string  `excel:"header:ISBN-13,order:0,width:18"`
//		Title string  `excel:"align:left,valign:top"`
//		Price float64 `excel:"subtotal,format:\"£\"#,##0.00"`
//		Notes string  `excel:"-"`
//	}
//
// Items are comma separated. format consumes the remainder of the tag so the
// format code itself may contain commas; it must come last.
const TagName = "excel"

type tagOptions struct {
	ignore    bool
	order     int
	hasOrder  bool
	header    string
	width     int
	numFmt    NumberFormat
	hasNumFmt bool
	custom    string
	align     HorizontalAlignment
	valign    VerticalAlignment
	subtotal  bool
}

func parseExcelTag(tag string) (tagOptions, error) {
	var opts tagOptions
	rest := strings.TrimSpace(tag)
	if rest == "-" {
		opts.ignore = true
		return opts, nil
	}

	for rest != "" {
		var item string
		if strings.HasPrefix(rest, "format:") {
			item, rest = rest, ""
		} else {
			item, rest, _ = strings.Cut(rest, ",")
			rest = strings.TrimSpace(rest)
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, _ := strings.Cut(item, ":")
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "header":
			opts.header = value
		case "order":
			n, err := strconv.Atoi(value)
			if err != nil {
				return opts, fmt.Errorf("order %q: %w", value, err)
			}
			opts.order, opts.hasOrder = n, true
		case "width":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return opts, fmt.Errorf("invalid width %q", value)
			}
			opts.width = n
		case "numfmt":
			f, err := ParseNumberFormat(value)
			if err != nil {
				return opts, err
			}
			opts.numFmt, opts.hasNumFmt, opts.custom = f, true, ""
		case "format":
			opts.custom, opts.hasNumFmt = value, false
		case "align":
			a, err := ParseHorizontalAlignment(value)
			if err != nil {
				return opts, err
			}
			opts.align = a
		case "valign":
			a, err := ParseVerticalAlignment(value)
			if err != nil {
				return opts, err
			}
			opts.valign = a
		case "subtotal":
			opts.subtotal = true
		default:
			return opts, fmt.Errorf("unknown tag option %q", key)
		}
	}
	return opts, nil
}

// recordField is an exported field of the record type with its parsed tag.
type recordField struct {
	name  string
	index []int
	tag   tagOptions
}

// recordType is the resolved schema of a record type: every exported field
// in declaration order, promoted fields included.
type recordType struct {
	typ    reflect.Type
	fields []recordField
}

func resolveRecordType(t reflect.Type) (*recordType, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: record type is an interface", ErrInvalidOperation)
	}
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record type %s is not a struct", ErrInvalidOperation, t)
	}

	rt := &recordType{typ: t}
	for _, f := range reflect.VisibleFields(st) {
		if !f.IsExported() {
			continue
		}
		// Embedded structs contribute their promoted fields instead.
		if f.Anonymous && derefKind(f.Type) == reflect.Struct {
			continue
		}
		opts, err := parseExcelTag(f.Tag.Get(TagName))
		if err != nil {
			return nil, fmt.Errorf("%w: field %s.%s: %v", ErrInvalidOperation, st.Name(), f.Name, err)
		}
		rt.fields = append(rt.fields, recordField{name: f.Name, index: f.Index, tag: opts})
	}
	return rt, nil
}

func derefKind(t reflect.Type) reflect.Kind {
	if t.Kind() == reflect.Pointer {
		return t.Elem().Kind()
	}
	return t.Kind()
}

func (rt *recordType) field(name string) (recordField, bool) {
	for _, f := range rt.fields {
		if f.name == name {
			return f, true
		}
	}
	return recordField{}, false
}

// orderedFields returns the non-ignored fields sorted by their effective
// order key: the order tag if present, otherwise the declaration index among
// non-ignored fields. Ties keep declaration order.
func (rt *recordType) orderedFields() []recordField {
	type keyed struct {
		key   int
		field recordField
	}
	var candidates []keyed
	for _, f := range rt.fields {
		if f.tag.ignore {
			continue
		}
		key := len(candidates)
		if f.tag.hasOrder {
			key = f.tag.order
		}
		candidates = append(candidates, keyed{key: key, field: f})
	}
	slices.SortStableFunc(candidates, func(a, b keyed) int { return a.key - b.key })

	out := make([]recordField, len(candidates))
	for i, c := range candidates {
		out[i] = c.field
	}
	return out
}

// fieldColumn builds a column bound to f with the defaults from its tag.
func fieldColumn[T any](f recordField, order int) *Column[T] {
	c := &Column[T]{
		Order:    order,
		Field:    f.name,
		Header:   f.name,
		Width:    f.tag.width,
		Subtotal: f.tag.subtotal,
		Value:    fieldValue[T](f.index),
	}
	if f.tag.header != "" {
		c.Header = f.tag.header
	}
	c.Style.NumberFormat = f.tag.numFmt
	c.Style.HasNumberFormat = f.tag.hasNumFmt
	c.Style.CustomFormat = f.tag.custom
	c.Style.Horizontal = f.tag.align
	c.Style.Vertical = f.tag.valign
	return c
}

// fieldValue reads the field at index from a record. A nil record or a nil
// embedded pointer on the path yields nil.
func fieldValue[T any](index []int) func(T) interface{} {
	return func(record T) interface{} {
		v := reflect.ValueOf(&record).Elem()
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			return nil
		}
		return f.Interface()
	}
}
