package cmd

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// unescape turns typed input such as `*1\r\n:1\r\n` into the bytes it stands for.
// It understands the Go escapes accepted by strconv.UnquoteChar; every other byte,
// including unescaped quotes and invalid UTF-8, is kept as is.
func unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			out = append(out, s[i])
			i++
			continue
		}

		value, multibyte, tail, err := strconv.UnquoteChar(s[i:], '"')
		if err != nil {
			return nil, fmt.Errorf("invalid escape at column %d: %w", i+1, err)
		}
		if multibyte {
			out = utf8.AppendRune(out, value)
		} else {
			out = append(out, byte(value))
		}
		i = len(s) - len(tail)
	}
	return out, nil
}
