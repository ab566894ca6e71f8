package lazysheet

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReportTemplate describes sheet layouts in YAML:
//
//	sheets:
//	  - name: Books
//	    all_fields: true
//	    freeze: {rows: 1}
//	    columns:
//	      - field: Price
//	        header: Cost
//	        format: '"£"#,##0.00'
//	        subtotal: true
//	      - field: Notes
//	        remove: true
//	      - header: Source
//	        value: catalogue
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate is applied to a SheetBuilder with SheetBuilder.Template.
type SheetTemplate struct {
	Name      string           `yaml:"name"`
	AllFields bool             `yaml:"all_fields"`
	Freeze    *FreezeTemplate  `yaml:"freeze"`
	Columns   []ColumnTemplate `yaml:"columns"`
}

type FreezeTemplate struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// ColumnTemplate configures one column. With a field it configures the
// column bound to that field, adding it if absent; without one it adds a
// computed column. NumFmt is applied before Format, so Format wins when both
// are present.
type ColumnTemplate struct {
	Field    string  `yaml:"field"`
	Header   string  `yaml:"header"`
	Width    int     `yaml:"width"`
	NumFmt   string  `yaml:"numfmt"`
	Format   string  `yaml:"format"`
	Align    string  `yaml:"align"`
	VAlign   string  `yaml:"valign"`
	Subtotal *bool   `yaml:"subtotal"`
	Formula  string  `yaml:"formula"`
	Value    *string `yaml:"value"`
	Remove   bool    `yaml:"remove"`
}

// LoadTemplate loads a report template from a YAML file.
func LoadTemplate(path string) (*ReportTemplate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template file: %w", err)
	}
	defer file.Close()

	return LoadTemplateFromReader(file)
}

// LoadTemplateFromReader decodes and validates a template.
func LoadTemplateFromReader(r io.Reader) (*ReportTemplate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	var tmpl ReportTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing YAML template: %w", err)
	}
	if err := ValidateTemplate(&tmpl); err != nil {
		return nil, fmt.Errorf("validating template: %w", err)
	}
	return &tmpl, nil
}

func LoadTemplateFromString(content string) (*ReportTemplate, error) {
	return LoadTemplateFromReader(strings.NewReader(content))
}

// ValidateTemplate checks names, formats and alignments ahead of use.
func ValidateTemplate(t *ReportTemplate) error {
	if t == nil {
		return fmt.Errorf("template is nil")
	}
	if len(t.Sheets) == 0 {
		return fmt.Errorf("template must have at least one sheet")
	}
	names := make(map[string]bool)
	for i := range t.Sheets {
		s := &t.Sheets[i]
		if s.Name != "" {
			key := strings.ToLower(truncateSheetName(s.Name))
			if names[key] {
				return fmt.Errorf("sheet[%d]: duplicate sheet name %q", i, s.Name)
			}
			names[key] = true
		}
		if s.Freeze != nil && (s.Freeze.Rows < 0 || s.Freeze.Columns < 0) {
			return fmt.Errorf("sheet[%d] %q: freeze counts must not be negative", i, s.Name)
		}
		for j, c := range s.Columns {
			if err := c.validate(); err != nil {
				return fmt.Errorf("sheet[%d] %q column[%d]: %w", i, s.Name, j, err)
			}
		}
	}
	return nil
}

func (c ColumnTemplate) validate() error {
	if c.Field == "" && c.Header == "" {
		return fmt.Errorf("field or header is required")
	}
	if c.Remove {
		return nil
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	if c.NumFmt != "" {
		if _, err := ParseNumberFormat(c.NumFmt); err != nil {
			return err
		}
	}
	if c.Align != "" {
		if _, err := ParseHorizontalAlignment(c.Align); err != nil {
			return err
		}
	}
	if c.VAlign != "" {
		if _, err := ParseVerticalAlignment(c.VAlign); err != nil {
			return err
		}
	}
	return nil
}

// Sheet returns the sheet template with the given name, or nil.
func (t *ReportTemplate) Sheet(name string) *SheetTemplate {
	for i := range t.Sheets {
		if strings.EqualFold(t.Sheets[i].Name, name) {
			return &t.Sheets[i]
		}
	}
	return nil
}

// Template applies a sheet template: name, reflected fields, freeze and
// column entries in that order.
func (sb *SheetBuilder[T]) Template(t *SheetTemplate) *SheetBuilder[T] {
	if t == nil {
		return sb
	}
	if t.Name != "" {
		sb.Name(t.Name)
	}
	if t.AllFields {
		sb.AllFields()
	}
	if t.Freeze != nil {
		sb.Freeze(t.Freeze.Rows, t.Freeze.Columns)
	}
	for _, c := range t.Columns {
		opt, err := columnTemplateOption[T](c)
		if err != nil {
			sb.fail(fmt.Errorf("%w: template column %q: %v", ErrInvalidOperation, c.Field+c.Header, err))
			continue
		}
		switch {
		case c.Remove && c.Field != "":
			sb.Remove(c.Field)
		case c.Remove:
			sb.RemoveHeader(c.Header)
		case c.Field == "":
			sb.Computed(opt)
		case sb.hasField(c.Field):
			sb.Configure(c.Field, opt)
		default:
			sb.Column(c.Field, opt)
		}
	}
	return sb
}

func (sb *SheetBuilder[T]) hasField(field string) bool {
	for _, c := range sb.columns {
		if c.Field == field {
			return true
		}
	}
	return false
}

func columnTemplateOption[T any](c ColumnTemplate) (ColumnOption[T], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return func(b *ColumnBuilder[T]) {
		if c.Header != "" {
			b.Header(c.Header)
		}
		if c.Width > 0 {
			b.Width(c.Width)
		}
		if c.NumFmt != "" {
			f, _ := ParseNumberFormat(c.NumFmt)
			b.Format(f)
		}
		if c.Format != "" {
			b.CustomFormat(c.Format)
		}
		if c.Align != "" {
			a, _ := ParseHorizontalAlignment(c.Align)
			b.Align(a)
		}
		if c.VAlign != "" {
			a, _ := ParseVerticalAlignment(c.VAlign)
			b.VAlign(a)
		}
		if c.Subtotal != nil {
			if *c.Subtotal {
				b.Subtotal()
			} else {
				b.NoSubtotal()
			}
		}
		if c.Formula != "" {
			b.Formula(c.Formula)
		}
		if c.Value != nil {
			b.Static(*c.Value)
		}
	}, nil
}
