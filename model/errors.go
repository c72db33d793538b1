package model

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is wrapped by every IndexError
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrConflictingTableType is returned when a table is tagged both
	// structured and semi-structured
	ErrConflictingTableType = errors.New("table is tagged both structured and semi-structured")

	// ErrMergedCellOutsideTable is returned when a merged cell names a cell
	// that does not belong to the same table
	ErrMergedCellOutsideTable = errors.New("merged cell references a cell outside its table")

	// ErrNoContent is returned when a document has no blocks at all
	ErrNoContent = errors.New("document has no blocks")
)

// IndexError reports an out-of-range positional lookup
type IndexError struct {
	Kind  string // "line", "word", "table", "page"
	Index int
	Len   int

	// OneBased is set for page numbers
	OneBased bool
}

func (e *IndexError) Error() string {
	if e.OneBased {
		return fmt.Sprintf("%s number %d out of range [1, %d]", e.Kind, e.Index, e.Len)
	}
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

func checkIndex(kind string, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Kind: kind, Index: i, Len: n}
	}
	return nil
}
