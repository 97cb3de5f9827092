package preprocess

import (
	"errors"
	"fmt"
)

// ErrInvalidEdits reports replacement spans that are out of order, overlap,
// or fall outside the text being rewritten.
var ErrInvalidEdits = errors.New("replacement spans must be ascending and non-overlapping")

// UnsupportedConstructError is returned when an attribute's block statement
// is not a built-in if/unless conditional the rewriter can express as a helper.
type UnsupportedConstructError struct {
	Attribute string
	Value     string
	Reason    string
	// Offset is the byte offset of the attribute in the original template.
	Offset int
	Length int
}

func (e *UnsupportedConstructError) Error() string {
	msg := fmt.Sprintf("unsupported block statement found in attribute '%s': %s", e.Attribute, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func unsupported(ref AttributeReference, value, reason string) *UnsupportedConstructError {
	return &UnsupportedConstructError{
		Attribute: ref.AttributeName,
		Value:     value,
		Reason:    reason,
		Offset:    ref.StartIndex,
		Length:    ref.Length,
	}
}
