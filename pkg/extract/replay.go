package extract

import (
	"github.com/praetorian-inc/line/pkg/render"
	"github.com/praetorian-inc/line/pkg/selector"
)

// Request is a normalized selector together with the token it came from.
type Request struct {
	Token    string
	Selector selector.Selector
}

// Replay writes every request, in order, from a filled cache.
//
// A single line or contiguous range is one block: the selected lines with
// ctx around them, in the range's direction. A stepped range writes one
// block per visited line, separated by blank lines when ctx is not zero.
// Lines missing from the cache are skipped.
func Replay(w *render.Writer, reqs []Request, cache *Cache, ctx Context, nLines int) error {
	for _, req := range reqs {
		if err := w.Header(req.Token); err != nil {
			return err
		}

		sel := req.Selector
		if sel.Contiguous() {
			block := ctx.window(sel.Low(), sel.High(), nLines)
			selected := Interval{Low: sel.Low(), High: sel.High()}
			if err := writeBlock(w, cache, block, selected, sel.Step < 0); err != nil {
				return err
			}
			continue
		}

		first := true
		for line := range sel.Lines() {
			if !first && !ctx.IsZero() {
				if err := w.Separator(); err != nil {
					return err
				}
			}
			first = false

			block := ctx.window(line, line, nLines)
			if err := writeBlock(w, cache, block, Interval{Low: line, High: line}, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeBlock writes the lines of block, marking those inside selected.
func writeBlock(w *render.Writer, cache *Cache, block, selected Interval, reverse bool) error {
	emit := func(line int) error {
		b, ok := cache.Get(line)
		if !ok {
			return nil
		}
		return w.Line(render.Line{
			Number:   line,
			Bytes:    b,
			Selected: line >= selected.Low && line <= selected.High,
		})
	}

	if reverse {
		for line := block.High; line >= block.Low; line-- {
			if err := emit(line); err != nil {
				return err
			}
		}
		return nil
	}
	for line := block.Low; line <= block.High; line++ {
		if err := emit(line); err != nil {
			return err
		}
	}
	return nil
}
