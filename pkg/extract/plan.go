// Package extract plans, reads and replays line selections over one input.
//
// Extraction makes a single forward pass over the input: every line needed
// by any selector, including context lines, is read once into a Cache, then
// the selectors are replayed from the cache in the order they were given.
package extract

import (
	"cmp"
	"iter"
	"slices"

	"github.com/praetorian-inc/line/pkg/selector"
)

// Interval is an inclusive range of zero-based line numbers.
type Interval struct {
	Low  int
	High int
}

// Len returns the number of lines in the interval.
func (iv Interval) Len() int {
	return iv.High - iv.Low + 1
}

// Context is the number of lines shown around each selected line.
type Context struct {
	Before int
	After  int
}

// IsZero reports whether no context lines are shown.
func (c Context) IsZero() bool {
	return c.Before == 0 && c.After == 0
}

// window returns [low-before, high+after] clipped to the input.
func (c Context) window(low, high, nLines int) Interval {
	iv := Interval{Low: 0, High: nLines - 1}
	if c.Before < low {
		iv.Low = low - c.Before
	}
	if c.After < nLines-1-high {
		iv.High = high + c.After
	}
	return iv
}

// Plan is the ascending set of lines to read: sorted, disjoint and
// non-adjacent intervals. Reading it front to back never moves backwards.
type Plan struct {
	Intervals []Interval
}

// NewPlan computes the lines needed to show sels with ctx around them in an
// input of nLines lines.
//
// A contiguous range needs one window around the whole range; single lines
// and stepped ranges need a window around every visited line. Windows are
// merged when they touch, so a line shared by several selectors is read
// once.
func NewPlan(sels []selector.Selector, ctx Context, nLines int) *Plan {
	sorted := slices.Clone(sels)
	slices.SortStableFunc(sorted, selector.Compare)

	var windows []Interval
	for _, sel := range sorted {
		if sel.Contiguous() {
			windows = append(windows, ctx.window(sel.Low(), sel.High(), nLines))
			continue
		}
		for line := range sel.Lines() {
			windows = append(windows, ctx.window(line, line, nLines))
		}
	}
	// Reverse stepped ranges produce descending windows.
	slices.SortStableFunc(windows, func(a, b Interval) int {
		return cmp.Compare(a.Low, b.Low)
	})

	p := &Plan{}
	for _, w := range windows {
		if n := len(p.Intervals); n > 0 && w.Low <= p.Intervals[n-1].High+1 {
			last := &p.Intervals[n-1]
			last.High = max(last.High, w.High)
			continue
		}
		p.Intervals = append(p.Intervals, w)
	}
	return p
}

// Len returns the number of distinct lines in the plan.
func (p *Plan) Len() int {
	n := 0
	for _, iv := range p.Intervals {
		n += iv.Len()
	}
	return n
}

// Lines yields every planned line in ascending order.
func (p *Plan) Lines() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, iv := range p.Intervals {
			for line := iv.Low; line <= iv.High; line++ {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Last returns the highest planned line, or -1 for an empty plan.
func (p *Plan) Last() int {
	if len(p.Intervals) == 0 {
		return -1
	}
	return p.Intervals[len(p.Intervals)-1].High
}
