package buildconfig

import (
	"errors"
	"fmt"
)

// Problem classifies an InvalidConfigError.
type Problem string

const (
	// ProblemUnknownKey means the document contains a key the loader does not recognize.
	ProblemUnknownKey Problem = "unrecognized key"
	// ProblemWrongType means a recognized key holds a value of the wrong type.
	ProblemWrongType Problem = "wrong type"
	// ProblemInvalidValue means the value has the right type but is not allowed.
	ProblemInvalidValue Problem = "invalid value"
)

// InvalidConfigError reports a configuration document that cannot be resolved.
// Key is the dotted path of the offending key, e.g. "images.unoptimized".
type InvalidConfigError struct {
	Key      string
	Problem  Problem
	Expected string
	Got      string
}

func (e *InvalidConfigError) Error() string {
	if e.Problem == ProblemUnknownKey {
		return fmt.Sprintf("invalid config: unrecognized key %q", e.Key)
	}
	msg := fmt.Sprintf("invalid config: key %q", e.Key)
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Got != "" {
		msg += ", got " + e.Got
	}
	return msg
}

// AsInvalidConfig unwraps err to an *InvalidConfigError.
func AsInvalidConfig(err error) (*InvalidConfigError, bool) {
	var ice *InvalidConfigError
	if errors.As(err, &ice) {
		return ice, true
	}
	return nil, false
}

func unknownKey(key string) error {
	return &InvalidConfigError{Key: key, Problem: ProblemUnknownKey}
}

func wrongType(key, expected string, got any) error {
	return &InvalidConfigError{
		Key:      key,
		Problem:  ProblemWrongType,
		Expected: expected,
		Got:      typeName(got),
	}
}

func invalidValue(key, expected, got string) error {
	return &InvalidConfigError{
		Key:      key,
		Problem:  ProblemInvalidValue,
		Expected: expected,
		Got:      got,
	}
}
