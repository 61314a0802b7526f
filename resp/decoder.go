package resp

import (
	"math"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultMaxDepth bounds array nesting so adversarial input cannot grow the stack
// without limit.
const DefaultMaxDepth = 1000

// Decoder decodes complete RESP values held in memory. A Decoder is immutable once
// built and safe for concurrent use; every call is independent.
type Decoder struct {
	maxDepth int
	logger   *zap.Logger
}

type Option func(*Decoder)

// WithMaxDepth sets how many arrays may be nested inside each other. Values below 1
// are ignored.
func WithMaxDepth(depth int) Option {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

// WithLogger makes the decoder report failed decodes at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// Decode decodes input, which must hold exactly one RESP value, with the default
// decoder. The returned error is always a *Error.
func Decode(input []byte) (Value, error) {
	return defaultDecoder.Decode(input)
}

func DecodeString(input string) (Value, error) {
	return defaultDecoder.Decode([]byte(input))
}

// DecodePrefix decodes the RESP value at the start of input and returns the number
// of bytes it occupies. Bytes after the value are left to the caller.
func DecodePrefix(input []byte) (Value, int, error) {
	return defaultDecoder.DecodePrefix(input)
}

// Decode decodes input, which must hold exactly one RESP value. Bytes left over
// after the value are reported as unexpected input of an UNKNOWN node.
func (d *Decoder) Decode(input []byte) (Value, error) {
	v, n, err := d.decode(input)
	if err == nil && n < len(input) {
		err = Unexpected(NodeUnknown, n)
	}
	if err != nil {
		d.logFailure(input, err)
		return Value{}, err
	}
	return v, nil
}

func (d *Decoder) DecodePrefix(input []byte) (Value, int, error) {
	v, n, err := d.decode(input)
	if err != nil {
		d.logFailure(input, err)
		return Value{}, 0, err
	}
	return v, n, nil
}

func (d *Decoder) decode(input []byte) (Value, int, *Error) {
	return d.value(input, 0, 0)
}

func (d *Decoder) logFailure(input []byte, err *Error) {
	if ce := d.logger.Check(zapcore.DebugLevel, "resp decode failed"); ce != nil {
		ce.Write(
			zap.Stringer("kind", err.Kind),
			zap.Stringer("node", err.Node),
			zap.Int("index", err.Index),
			zap.Int("size", len(input)),
		)
	}
}

// value decodes the value whose type prefix is at b[pos] and returns the offset
// right after it.
func (d *Decoder) value(b []byte, pos, depth int) (Value, int, *Error) {
	if pos >= len(b) {
		return Value{}, 0, Unexpected(NodeUnknown, pos)
	}

	switch b[pos] {
	case TypeBlob:
		return bulkString(b, pos)
	case TypeInteger:
		n, next, err := integer(b, pos+1, NodeInteger)
		if err != nil {
			return Value{}, 0, err
		}
		return Integer(n), next, nil
	case TypeSimple, TypeError:
		node := nodeOf(b[pos])
		payload, next, err := line(b, pos+1, node)
		if err != nil {
			return Value{}, 0, err
		}
		kind := KindString
		if node == NodeError {
			kind = KindError
		}
		return Value{kind: kind, payload: append([]byte{}, payload...)}, next, nil
	case TypeArray:
		return d.array(b, pos, depth)
	default:
		return Value{}, 0, Unexpected(NodeUnknown, pos)
	}
}

// integer parses ["-"] digit+ CRLF starting at b[pos].
func integer(b []byte, pos int, node Node) (int64, int, *Error) {
	i := pos
	neg := false
	if i < len(b) && b[i] == '-' {
		neg = true
		i++
	}

	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	var n uint64
	start := i
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		digit := uint64(b[i] - '0')
		if n > (limit-digit)/10 {
			return 0, 0, Unexpected(node, i)
		}
		n = n*10 + digit
	}
	if i == start {
		return 0, 0, Unexpected(node, i)
	}

	next, err := crlf(b, i, ErrKindUnexpected, node)
	if err != nil {
		return 0, 0, err
	}

	v := int64(n)
	if neg {
		v = -v
	}
	return v, next, nil
}

// size parses the length prefix of a bulk string or array starting at b[pos]. The
// result is -1 (null) or non-negative.
func size(b []byte, pos int) (int64, int, *Error) {
	n, next, err := integer(b, pos, NodeSize)
	if err != nil {
		err.Kind = ErrKindSize
		return 0, 0, err
	}
	if n < -1 {
		return 0, 0, SizeMismatch(NodeSize, pos)
	}
	return n, next, nil
}

// line returns the payload between b[pos] and the next CRLF. The payload may contain
// neither CR nor LF.
func line(b []byte, pos int, node Node) ([]byte, int, *Error) {
	for i := pos; i < len(b); i++ {
		switch b[i] {
		case '\r':
			if i+1 < len(b) && b[i+1] == '\n' {
				return b[pos:i], i + 2, nil
			}
			return nil, 0, Unexpected(node, i+1)
		case '\n':
			return nil, 0, Unexpected(node, i)
		}
	}
	return nil, 0, Unexpected(node, len(b))
}

func crlf(b []byte, i int, kind ErrorKind, node Node) (int, *Error) {
	if i >= len(b) || b[i] != '\r' {
		return 0, &Error{Kind: kind, Node: node, Index: i}
	}
	if i+1 >= len(b) || b[i+1] != '\n' {
		return 0, &Error{Kind: kind, Node: node, Index: i + 1}
	}
	return i + 2, nil
}

// bulkString decodes "$" length CRLF payload CRLF. The length counts bytes.
func bulkString(b []byte, pos int) (Value, int, *Error) {
	n, start, err := size(b, pos+1)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return Nil(), start, nil
	}

	if n > int64(len(b)-start) {
		return Value{}, 0, SizeMismatch(NodeBulkString, len(b))
	}
	end := start + int(n)

	next, err := crlf(b, end, ErrKindSize, NodeBulkString)
	if err != nil {
		return Value{}, 0, err
	}
	return StringBytes(b[start:end]), next, nil
}

// array decodes "*" count CRLF followed by count values, each of which may itself
// be an array.
func (d *Decoder) array(b []byte, pos, depth int) (Value, int, *Error) {
	if depth >= d.maxDepth {
		return Value{}, 0, Unexpected(NodeArray, pos)
	}

	n, next, err := size(b, pos+1)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return Nil(), next, nil
	}

	// every element takes at least one byte, so the input bounds the allocation
	hint := n
	if rest := int64(len(b) - next); hint > rest {
		hint = rest
	}
	elements := make([]Value, 0, hint)

	for int64(len(elements)) < n {
		if next >= len(b) {
			return Value{}, 0, SizeMismatch(NodeArray, next)
		}
		elem, after, err := d.value(b, next, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		elements = append(elements, elem)
		next = after
	}
	return Value{kind: KindArray, elements: elements}, next, nil
}
