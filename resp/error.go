package resp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies decode failures.
type ErrorKind uint8

const (
	// ErrKindUnexpected means the input deviates from the grammar: a bad or missing
	// type prefix, a bad or missing terminator, or a bad digit.
	ErrKindUnexpected ErrorKind = iota + 1
	// ErrKindSize means a declared bulk string length or array count does not match
	// the payload that follows it.
	ErrKindSize
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindUnexpected:
		return "unexpected input"
	case ErrKindSize:
		return "size mismatch"
	default:
		return fmt.Sprintf("error kind(%d)", uint8(k))
	}
}

var (
	// ErrUnexpected matches every *Error of kind ErrKindUnexpected with errors.Is.
	ErrUnexpected = errors.New("resp: unexpected input")

	// ErrSize matches every *Error of kind ErrKindSize with errors.Is.
	ErrSize = errors.New("resp: size mismatch")
)

// Error is a decode failure. Index is a byte offset into the decoded input, at most
// one past its end, and Node is the production active when the failure was detected.
type Error struct {
	Kind  ErrorKind
	Node  Node
	Index int
}

// Unexpected returns an ErrKindUnexpected error.
func Unexpected(node Node, index int) *Error {
	return &Error{Kind: ErrKindUnexpected, Node: node, Index: index}
}

// SizeMismatch returns an ErrKindSize error.
func SizeMismatch(node Node, index int) *Error {
	return &Error{Kind: ErrKindSize, Node: node, Index: index}
}

func (e *Error) Error() string {
	return fmt.Sprintf("resp: %s at byte %d while decoding %s", e.Kind, e.Index, e.Node)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnexpected:
		return e.Kind == ErrKindUnexpected
	case ErrSize:
		return e.Kind == ErrKindSize
	}
	return false
}

// Excerpt renders input with control and non-ASCII bytes escaped and a caret under
// the byte at e.Index. A positive width clips the rendered line to a window around
// the caret.
func (e *Error) Excerpt(input []byte, width int) string {
	var line strings.Builder
	caret := -1
	for i, c := range input {
		if i == e.Index {
			caret = line.Len()
		}
		line.WriteString(escapeByte(c))
	}
	if caret < 0 {
		caret = line.Len()
	}

	text := line.String()
	if width > 0 && len(text) > width {
		start := caret - width/2
		if start > len(text)-width {
			start = len(text) - width
		}
		if start < 0 {
			start = 0
		}
		text = text[start : start+width]
		caret -= start
	}
	if caret > len(text) {
		caret = len(text)
	}
	return text + "\n" + strings.Repeat(" ", caret) + "^"
}

func escapeByte(c byte) string {
	switch {
	case c == '\r':
		return `\r`
	case c == '\n':
		return `\n`
	case c == '\t':
		return `\t`
	case c == '\\':
		return `\\`
	case c >= 0x20 && c < 0x7f:
		return string(c)
	default:
		return fmt.Sprintf(`\x%02x`, c)
	}
}
