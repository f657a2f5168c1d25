package policy

import (
	"errors"
	"fmt"
)

// SyntaxError marks a policy whose document could not be parsed or whose
// condition could not be compiled. The engine reports it per policy so one
// malformed policy cannot block unrelated decisions.
type SyntaxError struct {
	PolicyID string
	Err      error
}

func (e *SyntaxError) Error() string {
	if e.PolicyID == "" {
		return fmt.Sprintf("invalid policy: %v", e.Err)
	}

	return fmt.Sprintf("policy %s: invalid document: %v", e.PolicyID, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// IsSyntaxError reports whether err is (or wraps) a SyntaxError.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr)
}
