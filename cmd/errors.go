package cmd

import (
	"errors"
	"strings"
)

// MultiError collects the failures of a batch run.
type MultiError []error

func (m MultiError) Error() string {
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, err := range m {
		b.WriteString("\n- " + err.Error())
	}
	return b.String()
}

func (m MultiError) Unwrap() []error {
	return m
}

// errorOrNil returns m as an error, or nil when it holds no failures.
func (m MultiError) errorOrNil() error {
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}

var ErrUsage = errors.New("usage error")
