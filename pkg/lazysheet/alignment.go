package lazysheet

import (
	"fmt"
	"strings"
)

// HorizontalAlignment values match the spreadsheet alignment attribute. The
// empty value leaves alignment unset.
type HorizontalAlignment string

const (
	AlignGeneral          HorizontalAlignment = "general"
	AlignLeft             HorizontalAlignment = "left"
	AlignCenter           HorizontalAlignment = "center"
	AlignCenterContinuous HorizontalAlignment = "centerContinuous"
	AlignRight            HorizontalAlignment = "right"
	AlignFill             HorizontalAlignment = "fill"
	AlignJustify          HorizontalAlignment = "justify"
	AlignDistributed      HorizontalAlignment = "distributed"
)

// VerticalAlignment values match the spreadsheet alignment attribute. The
// empty value leaves alignment unset.
type VerticalAlignment string

const (
	VAlignTop         VerticalAlignment = "top"
	VAlignCenter      VerticalAlignment = "center"
	VAlignBottom      VerticalAlignment = "bottom"
	VAlignJustify     VerticalAlignment = "justify"
	VAlignDistributed VerticalAlignment = "distributed"
)

var horizontalAlignments = []HorizontalAlignment{
	AlignGeneral, AlignLeft, AlignCenter, AlignCenterContinuous,
	AlignRight, AlignFill, AlignJustify, AlignDistributed,
}

var verticalAlignments = []VerticalAlignment{
	VAlignTop, VAlignCenter, VAlignBottom, VAlignJustify, VAlignDistributed,
}

// ParseHorizontalAlignment matches s case-insensitively against the known values.
func ParseHorizontalAlignment(s string) (HorizontalAlignment, error) {
	for _, a := range horizontalAlignments {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown horizontal alignment %q", s)
}

// ParseVerticalAlignment matches s case-insensitively against the known values.
func ParseVerticalAlignment(s string) (VerticalAlignment, error) {
	for _, a := range verticalAlignments {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown vertical alignment %q", s)
}
