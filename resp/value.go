package resp

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindInteger
	KindString
	KindError
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindError:
		return "error"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a decoded RESP value. Simple and bulk strings both decode to KindString.
// A Value owns its payload; nothing in it aliases the decoded input.
//
// The zero Value is Nil.
type Value struct {
	kind     Kind
	integer  int64
	payload  []byte
	elements []Value
}

// Nil returns the null value ("$-1\r\n" or "*-1\r\n").
func Nil() Value {
	return Value{}
}

func Integer(n int64) Value {
	return Value{kind: KindInteger, integer: n}
}

// String returns a string value holding a copy of s.
func String(s string) Value {
	return Value{kind: KindString, payload: []byte(s)}
}

// StringBytes returns a string value holding a copy of b.
func StringBytes(b []byte) Value {
	return Value{kind: KindString, payload: append([]byte{}, b...)}
}

// ErrorValue returns an application level error value, as sent by "-" lines. It is
// payload, not a decode failure.
func ErrorValue(msg string) Value {
	return Value{kind: KindError, payload: []byte(msg)}
}

// Array returns an array value of the given elements. An array without elements is
// empty, not nil.
func Array(elements ...Value) Value {
	if elements == nil {
		elements = []Value{}
	}
	return Value{kind: KindArray, elements: elements}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// Int returns the integer held by v, or 0 if v is not an integer.
func (v Value) Int() int64 {
	return v.integer
}

// Bytes returns the payload of a string or error value, nil otherwise.
// The returned slice belongs to v.
func (v Value) Bytes() []byte {
	return v.payload
}

// Text returns the payload of a string or error value as a Go string.
func (v Value) Text() string {
	return string(v.payload)
}

// Elements returns the elements of an array value, nil otherwise.
func (v Value) Elements() []Value {
	return v.elements
}

// Len returns the payload length in bytes for strings and errors and the element
// count for arrays.
func (v Value) Len() int {
	switch v.kind {
	case KindString, KindError:
		return len(v.payload)
	case KindArray:
		return len(v.elements)
	default:
		return 0
	}
}

// String renders v the way redis-cli prints replies.
func (v Value) String() string {
	var b strings.Builder
	v.format(&b, 0)
	return b.String()
}

func (v Value) format(b *strings.Builder, indent int) {
	switch v.kind {
	case KindNil:
		b.WriteString("(nil)")
	case KindInteger:
		b.WriteString("(integer) ")
		b.WriteString(strconv.FormatInt(v.integer, 10))
	case KindString:
		b.WriteString(strconv.Quote(string(v.payload)))
	case KindError:
		b.WriteString("(error) ")
		b.WriteString(string(v.payload))
	case KindArray:
		if len(v.elements) == 0 {
			b.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(v.elements)))
		for i, elem := range v.elements {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
			}
			label := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(label)
			elem.format(b, indent+len(label))
		}
	}
}
