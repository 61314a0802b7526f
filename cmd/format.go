package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fzft/go-resp/resp"
)

type OutputMode uint8

const (
	OutputStandard OutputMode = iota
	OutputRaw
)

var outputModes = map[string]OutputMode{
	"standard": OutputStandard,
	"raw":      OutputRaw,
}

type styles struct {
	hint  lipgloss.Style
	str   lipgloss.Style
	err   lipgloss.Style
	caret lipgloss.Style
	color bool
}

func newStyles(color bool) styles {
	return styles{
		hint:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		str:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		caret: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		color: color,
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// formatValue renders v in the given mode. Standard output follows redis-cli's tty
// formatting; raw output prints payloads verbatim, one per line.
func formatValue(v resp.Value, mode OutputMode, st styles) string {
	var b strings.Builder
	if mode == OutputRaw {
		formatRaw(&b, v)
	} else {
		formatStandard(&b, v, 0, st)
	}
	return b.String()
}

func formatStandard(b *strings.Builder, v resp.Value, indent int, st styles) {
	switch v.Kind() {
	case resp.KindNil:
		b.WriteString(st.render(st.hint, "(nil)"))
	case resp.KindInteger:
		b.WriteString(st.render(st.hint, "(integer)"))
		b.WriteString(" " + strconv.FormatInt(v.Int(), 10))
	case resp.KindString:
		b.WriteString(st.render(st.str, strconv.Quote(v.Text())))
	case resp.KindError:
		b.WriteString(st.render(st.err, "(error) "+v.Text()))
	case resp.KindArray:
		elems := v.Elements()
		if len(elems) == 0 {
			b.WriteString(st.render(st.hint, "(empty array)"))
			return
		}
		width := len(strconv.Itoa(len(elems)))
		for i, elem := range elems {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
			}
			label := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(label)
			formatStandard(b, elem, indent+len(label), st)
		}
	}
}

func formatRaw(b *strings.Builder, v resp.Value) {
	switch v.Kind() {
	case resp.KindNil:
	case resp.KindInteger:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case resp.KindString, resp.KindError:
		b.Write(v.Bytes())
	case resp.KindArray:
		for i, elem := range v.Elements() {
			if i > 0 {
				b.WriteByte('\n')
			}
			formatRaw(b, elem)
		}
	}
}

// formatFailure renders a decode failure with a pointer into the input. Errors other
// than *resp.Error are rendered as a single line.
func formatFailure(err error, input []byte, width int, st styles) string {
	rerr, ok := err.(*resp.Error)
	if !ok {
		return st.render(st.err, "(error) "+err.Error())
	}

	excerpt := rerr.Excerpt(input, width)
	text, caret, _ := strings.Cut(excerpt, "\n")
	return st.render(st.err, "(error) "+rerr.Error()) + "\n" + text + "\n" + st.render(st.caret, caret)
}
