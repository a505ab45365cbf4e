package dump

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the sentinel matched by every decoding failure.
var ErrMalformedInput = errors.New("malformed tree dump")

// Reasons reported by MalformedTreeError.
const (
	ReasonExpectedOpen       = "expected opening parenthesis"
	ReasonMissingClose       = "missing closing parenthesis"
	ReasonMissingName        = "expected node name"
	ReasonUnterminatedString = "unterminated quoted string"
	ReasonUnterminatedBrack  = "unterminated bracketed string"
	ReasonUnexpectedChar     = "unexpected character"
	ReasonTrailingContent    = "unexpected content after root node"
	ReasonIterationCap       = "iteration cap exceeded"
)

// MalformedTreeError describes why a dump could not be decoded.
// Pos references the last successfully parsed token, At the failure point.
type MalformedTreeError struct {
	Reason    string
	LastToken string
	Pos       Pos
	At        Pos
}

// Error implements error.
func (e *MalformedTreeError) Error() string {
	if e.LastToken == "" {
		return fmt.Sprintf("%s at %s: %s", ErrMalformedInput, e.At, e.Reason)
	}

	return fmt.Sprintf("%s at %s: %s (last token %q at %s)",
		ErrMalformedInput, e.At, e.Reason, e.LastToken, e.Pos)
}

// Unwrap returns ErrMalformedInput so errors.Is works.
func (e *MalformedTreeError) Unwrap() error {
	return ErrMalformedInput
}
