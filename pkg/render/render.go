// Package render writes extracted lines in one of four fixed styles.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// EmptyFileNotice is printed instead of lines when the input is empty and
// the output is not plain.
const EmptyFileNotice = "--- EMPTY FILE ---"

// Style selects how lines are decorated. The set is closed: decoration
// (line numbers and headers) and color are independent switches.
type Style int

const (
	Plain            Style = iota // raw bytes only
	Decorated                     // line numbers and headers
	Colored                       // highlighted selected lines, no numbers
	ColoredDecorated              // both
)

// StyleFor returns the style combining the two switches.
func StyleFor(decorate, colored bool) Style {
	switch {
	case decorate && colored:
		return ColoredDecorated
	case decorate:
		return Decorated
	case colored:
		return Colored
	default:
		return Plain
	}
}

// Decorated reports whether the style prints line numbers and headers.
func (s Style) Decorated() bool {
	return s == Decorated || s == ColoredDecorated
}

// Colored reports whether the style emits color escapes.
func (s Style) Colored() bool {
	return s == Colored || s == ColoredDecorated
}

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case Decorated:
		return "decorated"
	case Colored:
		return "colored"
	case ColoredDecorated:
		return "colored+decorated"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Line is one physical line handed to the writer.
type Line struct {
	Number   int    // zero-based
	Bytes    []byte // including the trailing newline, if any
	Selected bool   // false for context lines
}

// styles holds color formatters. Colors are forced on so the global
// color.NoColor switch does not affect an explicitly colored style.
type styles struct {
	number         *color.Color
	selectedNumber *color.Color
	selected       *color.Color
	header         *color.Color
}

func newStyles() *styles {
	s := &styles{
		number:         color.New(color.Bold),
		selectedNumber: color.New(color.FgGreen, color.Bold),
		selected:       color.New(color.FgRed),
		header:         color.New(color.FgCyan, color.Bold),
	}
	s.number.EnableColor()
	s.selectedNumber.EnableColor()
	s.selected.EnableColor()
	s.header.EnableColor()
	return s
}

// Writer emits headers, lines and separators in a Style.
//
// The content bytes of a line are identical in every style. A line that
// lacks a trailing newline is written as is; if anything follows it, a
// newline is inserted first so later output starts on its own line.
type Writer struct {
	out     io.Writer
	style   Style
	styles  *styles
	wrote   bool
	pending bool
}

// NewWriter returns a Writer emitting to out.
func NewWriter(out io.Writer, style Style) *Writer {
	w := &Writer{out: out, style: style}
	if style.Colored() {
		w.styles = newStyles()
	}
	return w
}

// Style returns the writer's style.
func (w *Writer) Style() Style {
	return w.style
}

// Header starts the block for a selector. Undecorated styles print nothing.
// Blocks after the first are preceded by a blank line.
func (w *Writer) Header(token string) error {
	if !w.style.Decorated() {
		return nil
	}
	if w.wrote {
		if err := w.write("\n"); err != nil {
			return err
		}
	}
	text := "Line: " + token
	if w.style.Colored() {
		text = w.styles.header.Sprint(text)
	}
	return w.write(text + "\n")
}

// Line writes one line.
func (w *Writer) Line(l Line) error {
	var prefix string
	if w.style.Decorated() {
		prefix = fmt.Sprintf("%d:", l.Number+1)
		if w.style.Colored() {
			if l.Selected {
				prefix = w.styles.selectedNumber.Sprint(prefix)
			} else {
				prefix = w.styles.number.Sprint(prefix)
			}
		}
		prefix += " "
	}

	content := string(l.Bytes)
	if w.style.Colored() && l.Selected {
		content = w.styles.selected.Sprint(content)
	}

	if err := w.write(prefix + content); err != nil {
		return err
	}
	w.pending = len(l.Bytes) > 0 && l.Bytes[len(l.Bytes)-1] != '\n'
	return nil
}

// Separator writes a blank line between blocks of one selector.
func (w *Writer) Separator() error {
	return w.write("\n")
}

// EmptyFile writes EmptyFileNotice.
func (w *Writer) EmptyFile() error {
	return w.write(EmptyFileNotice + "\n")
}

func (w *Writer) write(s string) error {
	if w.pending {
		w.pending = false
		if _, err := io.WriteString(w.out, "\n"); err != nil {
			return err
		}
	}
	w.wrote = true
	_, err := io.WriteString(w.out, s)
	return err
}
