package resp

const CRLF string = "\r\n"

// Type prefixes of RESP version 2
const (
	TypeArray   byte = '*'
	TypeBlob    byte = '$'
	TypeSimple  byte = '+'
	TypeError   byte = '-'
	TypeInteger byte = ':'
)

// Node identifies the grammar production being decoded when a failure is detected.
// It only appears in diagnostics, never in a decoded Value.
type Node uint8

const (
	NodeUnknown Node = iota
	NodeNil
	NodeInteger
	NodeSimpleString
	NodeBulkString
	NodeError
	NodeArray
	// NodeSize is reported when the length prefix of a bulk string or array fails to parse.
	NodeSize
)

var nodeNames = [...]string{
	NodeUnknown:      "UNKNOWN",
	NodeNil:          "NIL",
	NodeInteger:      "INTEGER",
	NodeSimpleString: "SIMPLE_STRING",
	NodeBulkString:   "BULK_STRING",
	NodeError:        "ERROR",
	NodeArray:        "ARRAY",
	NodeSize:         "SIZE",
}

func (n Node) String() string {
	if int(n) < len(nodeNames) {
		return nodeNames[n]
	}
	return "UNKNOWN"
}

// nodeOf maps a type prefix byte to the node it opens.
func nodeOf(prefix byte) Node {
	switch prefix {
	case TypeArray:
		return NodeArray
	case TypeBlob:
		return NodeBulkString
	case TypeSimple:
		return NodeSimpleString
	case TypeError:
		return NodeError
	case TypeInteger:
		return NodeInteger
	default:
		return NodeUnknown
	}
}
