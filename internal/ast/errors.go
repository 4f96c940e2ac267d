package ast

import (
	"errors"
	"fmt"
)

// NodeError represents a structural error raised by a helper or pass.
//
// Structural errors include:
//   - Type mismatch: a helper required a specific variant and got another
//   - Arity mismatch: a ListItem held zero or more than one element where
//     exactly one was required
//   - Unimplemented: a Todo node reached a point needing a concrete value
//
// NodeError includes structured fields for diagnostics and recovery.
type NodeError struct {
	// Code identifies the error category.
	Code NodeErrorCode

	// Helper names the helper or pass that raised the error.
	Helper string

	// Expected is the variant tag the helper required (for mismatches).
	Expected string

	// Node is the offending node, rendered into the message.
	Node Item
}

// NodeErrorCode categorizes structural errors.
type NodeErrorCode string

const (
	// ErrCodeTypeMismatch indicates a helper received the wrong variant.
	ErrCodeTypeMismatch NodeErrorCode = "TYPE_MISMATCH"

	// ErrCodeArityMismatch indicates a ListItem held zero or several
	// elements where exactly one was required.
	ErrCodeArityMismatch NodeErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnimplemented indicates a Todo node reached a point that
	// requires a concrete value.
	ErrCodeUnimplemented NodeErrorCode = "UNIMPLEMENTED"
)

// Error implements the error interface.
func (e *NodeError) Error() string {
	if e.Node != nil && e.Expected != "" {
		return fmt.Sprintf("%s: %s: expected %s, got %s: %s",
			e.Code, e.Helper, e.Expected, e.Node.Tag(), Render(e.Node))
	}
	if e.Node != nil {
		return fmt.Sprintf("%s: %s: got %s: %s",
			e.Code, e.Helper, e.Node.Tag(), Render(e.Node))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Helper)
}

// NewTypeMismatch creates a NodeError for a wrong-variant helper call.
func NewTypeMismatch(helper, expected string, node Item) *NodeError {
	return &NodeError{
		Code:     ErrCodeTypeMismatch,
		Helper:   helper,
		Expected: expected,
		Node:     node,
	}
}

// NewArityMismatch creates a NodeError for a list element that does not
// hold exactly one item.
func NewArityMismatch(helper string, node Item) *NodeError {
	return &NodeError{
		Code:     ErrCodeArityMismatch,
		Helper:   helper,
		Expected: "exactly one element",
		Node:     node,
	}
}

// NewUnimplemented creates a NodeError for a Todo node reaching a point
// that requires a concrete value.
func NewUnimplemented(helper string, node Item) *NodeError {
	return &NodeError{
		Code:   ErrCodeUnimplemented,
		Helper: helper,
		Node:   node,
	}
}

// IsTypeMismatch returns true if the error is a variant mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeTypeMismatch
	}
	return false
}

// IsArityMismatch returns true if the error is an arity mismatch.
// Uses errors.As to handle wrapped errors.
func IsArityMismatch(err error) bool {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeArityMismatch
	}
	return false
}

// IsUnimplemented returns true if the error reports an unimplemented
// construct. Uses errors.As to handle wrapped errors.
func IsUnimplemented(err error) bool {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeUnimplemented
	}
	return false
}

// ErrorFromItem converts an unexpected node into a plain error carrying
// its rendering. Call sites that only need a uniform error type use this
// at the boundary instead of threading the node upward.
func ErrorFromItem(item Item) error {
	return fmt.Errorf("failed to convert %s: %s", item.Tag(), Render(item))
}
