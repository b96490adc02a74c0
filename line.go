// Package line extracts lines from files by number, range or step.
//
// Selectors are one-based and may be negative to count from the end, as in
// "3", "-2", "5:10", ":4", "10:" or "1::2". Every line is read at most once,
// in a single forward pass, whatever the order of the selectors.
//
// # Basic Usage
//
//	out, err := line.ExtractString("one\ntwo\nthree\n", "-1,1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out) // three\none\n
//
// # Files and Options
//
//	ex, err := line.NewExtractor(line.WithContext(2, 2), line.WithStyle(line.StyleDecorated))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stats, err := ex.ExtractFile(os.Stdout, "server.log", "100:120,-1")
package line

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/praetorian-inc/line/pkg/extract"
	"github.com/praetorian-inc/line/pkg/index"
	"github.com/praetorian-inc/line/pkg/input"
	"github.com/praetorian-inc/line/pkg/render"
	"github.com/praetorian-inc/line/pkg/selector"
)

// Re-export commonly used types for convenience.
type (
	// Selector is a validated, zero-based line selector.
	Selector = selector.Selector

	// SelectorError describes a rejected selector.
	SelectorError = selector.Error

	// Style selects line numbers, headers and color.
	Style = render.Style

	// Stats describes the work done by one extraction.
	Stats = extract.Stats

	// Index caches line counts between extractions.
	Index = index.Store
)

// Output styles.
const (
	StylePlain            = render.Plain
	StyleDecorated        = render.Decorated
	StyleColored          = render.Colored
	StyleColoredDecorated = render.ColoredDecorated
)

// ErrBinaryFile is returned for a file that looks binary unless
// WithAllowBinary is given.
var ErrBinaryFile = errors.New("binary file")

// Extractor extracts lines with a fixed set of options. It is not safe for
// concurrent use when it has an index that isn't.
type Extractor struct {
	ex     *extract.Extractor
	config *extractorConfig
}

type extractorConfig struct {
	before, after   int
	style           Style
	allowBinary     bool
	emptyFileNotice bool
	index           Index
}

// Option configures an Extractor.
type Option func(*extractorConfig)

// WithContext shows before lines ahead of and after lines behind every
// selected line.
func WithContext(before, after int) Option {
	return func(c *extractorConfig) {
		c.before = before
		c.after = after
	}
}

// WithStyle sets the output style. The default is StylePlain.
func WithStyle(style Style) Option {
	return func(c *extractorConfig) {
		c.style = style
	}
}

// WithAllowBinary reads files even when they look binary.
func WithAllowBinary() Option {
	return func(c *extractorConfig) {
		c.allowBinary = true
	}
}

// WithEmptyFileNotice prints render.EmptyFileNotice for empty input instead
// of nothing.
func WithEmptyFileNotice() Option {
	return func(c *extractorConfig) {
		c.emptyFileNotice = true
	}
}

// WithIndex looks up and stores line counts of files in idx, so unchanged
// files are not counted again. The caller keeps ownership of idx.
func WithIndex(idx Index) Option {
	return func(c *extractorConfig) {
		c.index = idx
	}
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts ...Option) (*Extractor, error) {
	config := &extractorConfig{style: StylePlain}
	for _, opt := range opts {
		opt(config)
	}

	ex, err := extract.New(extract.Options{
		Context:         extract.Context{Before: config.before, After: config.after},
		Style:           config.style,
		EmptyFileNotice: config.emptyFileNotice,
		Index:           config.index,
	})
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}
	return &Extractor{ex: ex, config: config}, nil
}

// ExtractFile writes the lines of the file at path chosen by selectors, a
// comma-separated list, to w.
func (e *Extractor) ExtractFile(w io.Writer, path, selectors string) (Stats, error) {
	raws, err := selector.ParseList(selectors)
	if err != nil {
		return Stats{}, err
	}

	f, err := input.Open(path)
	if errors.Is(err, input.ErrEmptyFile) {
		return Stats{}, e.empty(w)
	}
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	if !e.config.allowBinary {
		binary, err := f.Sniff()
		if err != nil {
			return Stats{}, err
		}
		if binary {
			return Stats{}, fmt.Errorf("`%s`: %w", path, ErrBinaryFile)
		}
	}
	return e.ex.Run(w, extract.Source{Reader: f, Key: f.Key}, raws)
}

// ExtractReader writes the lines of r chosen by selectors to w. r is read
// from its start; the index is not used.
func (e *Extractor) ExtractReader(w io.Writer, r io.ReadSeeker, selectors string) (Stats, error) {
	raws, err := selector.ParseList(selectors)
	if err != nil {
		return Stats{}, err
	}
	return e.ex.Run(w, extract.Source{Reader: r}, raws)
}

func (e *Extractor) empty(w io.Writer) error {
	if !e.config.emptyFileNotice {
		return nil
	}
	return render.NewWriter(w, e.config.style).EmptyFile()
}

// Extract writes the lines of the file at path chosen by selectors to w.
func Extract(w io.Writer, path, selectors string, opts ...Option) error {
	ex, err := NewExtractor(opts...)
	if err != nil {
		return err
	}
	_, err = ex.ExtractFile(w, path, selectors)
	return err
}

// ExtractString returns the lines of content chosen by selectors.
func ExtractString(content, selectors string, opts ...Option) (string, error) {
	ex, err := NewExtractor(opts...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if _, err := ex.ExtractReader(&sb, strings.NewReader(content), selectors); err != nil {
		return "", err
	}
	return sb.String(), nil
}
