// Package cellref implements A1-style cell addressing: conversion between
// column letters and column numbers, parsing of cell references and
// clamped relative movement.
package cellref

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned when column letters are empty or contain
// anything other than A-Z.
var ErrInvalidArgument = errors.New("cellref: invalid argument")

// Position is a 1-based (column, row) coordinate. It is a value type; every
// movement returns a new Position.
type Position struct {
	Column int
	Row    int
}

// New returns the position at the given column and row.
func New(column, row int) Position {
	return Position{Column: column, Row: row}
}

// Parse reads a reference such as "C3" leniently. Letters anywhere in s make
// up the column and digits anywhere make up the row, so "3c" and "C3" are
// equivalent. A missing or unparseable row yields Row 0 and a missing column
// yields column 1; no error is reported.
func Parse(s string) Position {
	var letters, digits strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			letters.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			letters.WriteRune(r)
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		}
	}

	p := Position{Column: 1}
	if letters.Len() > 0 {
		if n, err := LetterToNumber(letters.String()); err == nil {
			p.Column = n
		}
	}
	if row, err := strconv.Atoi(digits.String()); err == nil {
		p.Row = row
	}
	return p
}

// MustParse is like Parse but panics when s does not carry a positive row.
// It is intended for references known at compile time.
func MustParse(s string) Position {
	p := Parse(s)
	if !p.IsValid() {
		panic(fmt.Sprintf("cellref: invalid cell reference %q", s))
	}
	return p
}

// LetterToNumber converts bijective base-26 column letters to a column
// number: A=1, Z=26, AA=27. Lower-case letters are accepted. Runs too long
// to fit an int are rejected.
func LetterToNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column letters", ErrInvalidArgument)
	}
	n := 0
	for _, r := range letters {
		var d int
		switch {
		case r >= 'A' && r <= 'Z':
			d = int(r-'A') + 1
		case r >= 'a' && r <= 'z':
			d = int(r-'a') + 1
		default:
			return 0, fmt.Errorf("%w: %q is not a column letter", ErrInvalidArgument, r)
		}
		if n > (math.MaxInt-d)/26 {
			return 0, fmt.Errorf("%w: column letters %q overflow", ErrInvalidArgument, letters)
		}
		n = n*26 + d
	}
	return n, nil
}

// NumberToLetter converts a column number to its letters. Numbers below 1
// have no letter form and yield "".
func NumberToLetter(n int) string {
	if n <= 0 {
		return ""
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// MoveBy shifts the position by the given column and row deltas. Neither
// component drops below 1.
func (p Position) MoveBy(columns, rows int) Position {
	return Position{
		Column: max(p.Column+columns, 1),
		Row:    max(p.Row+rows, 1),
	}
}

func (p Position) NextColumn() Position { return p.MoveBy(1, 0) }

func (p Position) NextRow() Position { return p.MoveBy(0, 1) }

// PreviousColumn moves one column left; it is a no-op in column 1.
func (p Position) PreviousColumn() Position { return p.MoveBy(-1, 0) }

// PreviousRow moves one row up; it is a no-op in row 1.
func (p Position) PreviousRow() Position { return p.MoveBy(0, -1) }

// ColumnLetter returns the letter form of the column.
func (p Position) ColumnLetter() string {
	return NumberToLetter(p.Column)
}

// IsValid reports whether both components are at least 1.
func (p Position) IsValid() bool {
	return p.Column >= 1 && p.Row >= 1
}

// Equal reports whether p and o address the same cell.
func (p Position) Equal(o Position) bool {
	return p == o
}

// String renders the canonical reference, e.g. "C3".
func (p Position) String() string {
	return p.ColumnLetter() + strconv.Itoa(p.Row)
}

// Range renders the rectangular range between two positions, e.g. "A1:D10".
func Range(from, to Position) string {
	return from.String() + ":" + to.String()
}
