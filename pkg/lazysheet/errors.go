package lazysheet

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is returned when a column cannot be resolved
	// against the record type, or when a workbook cannot accept a sheet.
	ErrInvalidOperation = errors.New("invalid operation")
)

// SheetError records which sheet and which layout stage failed.
type SheetError struct {
	Sheet string
	Stage string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
	}
	return fmt.Sprintf("sheet %q: %s: %v", e.Sheet, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func sheetError(sheet, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &SheetError{Sheet: sheet, Stage: stage, Err: err}
}
