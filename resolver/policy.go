package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

var (
	// ErrMissingReference is returned when a relationship names a block id
	// that is not present on the page.
	ErrMissingReference = errors.New("missing block reference")

	// ErrUnexpectedBlockType is returned when a relationship points at a
	// block whose type the caller did not ask for.
	ErrUnexpectedBlockType = errors.New("unexpected block type")
)

// Policy decides what happens when a reference cannot be used
type Policy int

const (
	// PolicyInherit defers to the registry default
	PolicyInherit Policy = iota
	// PolicyIgnore skips the reference silently
	PolicyIgnore
	// PolicyWarn skips the reference and reports a Warning
	PolicyWarn
	// PolicyError aborts with an error
	PolicyError
)

func (p Policy) String() string {
	switch p {
	case PolicyIgnore:
		return "ignore"
	case PolicyWarn:
		return "warn"
	case PolicyError:
		return "error"
	default:
		return "inherit"
	}
}

// ParsePolicy parses a policy name. Matching is case-insensitive and the
// empty string maps to PolicyInherit.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inherit", "default":
		return PolicyInherit, nil
	case "ignore", "skip", "silent":
		return PolicyIgnore, nil
	case "warn", "warning":
		return PolicyWarn, nil
	case "error", "fail", "strict":
		return PolicyError, nil
	}
	return PolicyInherit, fmt.Errorf("unknown policy %q", s)
}

// ReferenceError describes a reference that could not be followed
type ReferenceError struct {
	BlockID      string
	RefID        string
	Relationship types.RelationshipType
	BlockType    types.BlockType // type of the referenced block, if it was found
	Err          error
}

func (e *ReferenceError) Error() string {
	if e.BlockID == "" {
		return fmt.Sprintf("block %s: %v", e.RefID, e.Err)
	}
	if e.BlockType != "" {
		return fmt.Sprintf("block %s %s relationship to %s (%s): %v",
			e.BlockID, e.Relationship, e.RefID, e.BlockType, e.Err)
	}
	return fmt.Sprintf("block %s %s relationship to %s: %v", e.BlockID, e.Relationship, e.RefID, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Code classifies a Warning
type Code string

const (
	CodeMissingReference    Code = "missing-reference"
	CodeUnexpectedBlockType Code = "unexpected-block-type"
	CodeUnknownRelationship Code = "unknown-relationship"
	CodeDuplicateID         Code = "duplicate-id"
	CodeAmbiguousValue      Code = "ambiguous-value"
	CodeOrphanBlock         Code = "orphan-block"
)

// Warning is a recoverable anomaly found while resolving the block graph
type Warning struct {
	Code         Code
	Page         int
	BlockID      string
	RefID        string
	Relationship types.RelationshipType
	BlockType    types.BlockType
	Message      string
}

func (w Warning) key() string {
	return strings.Join([]string{string(w.Code), w.BlockID, w.RefID, string(w.Relationship)}, "\x00")
}

func (w Warning) String() string {
	msg := w.Message
	if msg == "" {
		msg = string(w.Code)
	}
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, msg)
	}
	return msg
}
