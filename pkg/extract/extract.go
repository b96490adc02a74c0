package extract

import (
	"fmt"
	"io"

	"github.com/praetorian-inc/line/pkg/index"
	"github.com/praetorian-inc/line/pkg/linereader"
	"github.com/praetorian-inc/line/pkg/render"
	"github.com/praetorian-inc/line/pkg/selector"
)

// Options configures an Extractor.
type Options struct {
	// Context is the number of lines shown around selected lines.
	Context Context

	// Style selects decoration and color.
	Style render.Style

	// EmptyFileNotice prints render.EmptyFileNotice for an empty input.
	EmptyFileNotice bool

	// Index, if set, caches line counts between runs.
	Index index.Store

	// Logf receives diagnostics. Nil discards them.
	Logf func(format string, args ...any)

	// Warnf receives non-fatal problems. Nil discards them.
	Warnf func(format string, args ...any)
}

// Source is a seekable input positioned anywhere.
type Source struct {
	Reader io.ReadSeeker

	// Key identifies the input in the index. The zero Key bypasses it.
	Key index.Key
}

// Extractor runs the extraction pipeline: count, normalize, plan, fill,
// replay.
type Extractor struct {
	opts Options
}

// New returns an Extractor.
func New(opts Options) (*Extractor, error) {
	if opts.Context.Before < 0 || opts.Context.After < 0 {
		return nil, fmt.Errorf("context lines can't be negative")
	}
	return &Extractor{opts: opts}, nil
}

// Run writes the lines selected by raws from src to w.
func (e *Extractor) Run(w io.Writer, src Source, raws []selector.Raw) (Stats, error) {
	var stats Stats

	nLines, hit, err := e.countLines(src)
	if err != nil {
		return stats, err
	}
	stats.Lines = nLines
	stats.IndexHit = hit
	e.logf("line count: %d (index hit: %t)", nLines, hit)

	out := render.NewWriter(w, e.opts.Style)
	if nLines == 0 {
		if e.opts.EmptyFileNotice {
			return stats, out.EmptyFile()
		}
		return stats, nil
	}

	sels, err := selector.NormalizeAll(raws, nLines)
	if err != nil {
		return stats, err
	}

	plan := NewPlan(sels, e.opts.Context, nLines)
	stats.Planned = plan.Len()
	e.logf("plan: %d line(s) in %d interval(s), last line %d", plan.Len(), len(plan.Intervals), plan.Last()+1)

	if _, err := src.Reader.Seek(0, io.SeekStart); err != nil {
		return stats, fmt.Errorf("rewinding input: %w", err)
	}
	cache, fill, err := Fill(linereader.New(src.Reader), plan)
	if err != nil {
		return stats, err
	}
	stats.LinesRead = fill.LinesRead
	stats.LinesSkipped = fill.LinesSkipped
	stats.Truncated = fill.Truncated
	e.logf("read %d line(s), skipped %d", fill.LinesRead, fill.LinesSkipped)
	if fill.Truncated {
		e.warnf("input ended before line %d, the line count index may be stale", plan.Last()+1)
	}

	reqs := make([]Request, len(sels))
	for i, sel := range sels {
		reqs[i] = Request{Token: raws[i].Token, Selector: sel}
	}
	return stats, Replay(out, reqs, cache, e.opts.Context, nLines)
}

// countLines returns the number of lines in src, from the index when it
// knows this version of the file.
func (e *Extractor) countLines(src Source) (int, bool, error) {
	useIndex := e.opts.Index != nil && !src.Key.IsZero()
	if useIndex {
		lines, ok, err := e.opts.Index.Lookup(src.Key)
		if err != nil {
			e.warnf("reading line count index: %v", err)
		} else if ok {
			return lines, true, nil
		}
	}

	if _, err := src.Reader.Seek(0, io.SeekStart); err != nil {
		return 0, false, fmt.Errorf("rewinding input: %w", err)
	}
	lines, err := linereader.Count(src.Reader)
	if err != nil {
		return 0, false, err
	}

	if useIndex {
		if err := e.opts.Index.Put(src.Key, lines); err != nil {
			e.warnf("updating line count index: %v", err)
		}
	}
	return lines, false, nil
}

func (e *Extractor) logf(format string, args ...any) {
	if e.opts.Logf != nil {
		e.opts.Logf(format, args...)
	}
}

func (e *Extractor) warnf(format string, args ...any) {
	if e.opts.Warnf != nil {
		e.opts.Warnf(format, args...)
	}
}
