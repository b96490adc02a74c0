package selector

import (
	"cmp"
	"fmt"
	"iter"
)

// Selector is a validated, zero-based line selector.
//
// A single line has Start == End and Step == 1. A range always has
// Start != End, Step != 0, and End reachable from Start in whole steps:
// Start <= End when Step > 0, Start >= End when Step < 0.
type Selector struct {
	Start int
	End   int
	Step  int
}

// Single returns a selector for one zero-based line.
func Single(line int) Selector {
	return Selector{Start: line, End: line, Step: 1}
}

// IsSingle reports whether the selector names exactly one line.
func (s Selector) IsSingle() bool {
	return s.Start == s.End
}

// Contiguous reports whether consecutive visited lines are adjacent.
func (s Selector) Contiguous() bool {
	return s.Step == 1 || s.Step == -1
}

// Low returns the smallest line visited.
func (s Selector) Low() int {
	return min(s.Start, s.End)
}

// High returns the largest line visited.
func (s Selector) High() int {
	return max(s.Start, s.End)
}

// Count returns the number of lines visited.
func (s Selector) Count() int {
	return abs(s.End-s.Start)/abs(s.Step) + 1
}

// Lines yields the visited lines in visit order, from Start to End.
func (s Selector) Lines() iter.Seq[int] {
	return func(yield func(int) bool) {
		for line := s.Start; ; line += s.Step {
			if !yield(line) || line == s.End {
				return
			}
		}
	}
}

// Compare orders selectors by their lowest line. Callers sort with a
// stable sort so selectors sharing a lowest line keep their request order.
func Compare(a, b Selector) int {
	return cmp.Compare(a.Low(), b.Low())
}

// String renders the selector in one-based slice syntax.
func (s Selector) String() string {
	if s.IsSingle() {
		return fmt.Sprintf("%d", s.Start+1)
	}
	if s.Step == 1 {
		return fmt.Sprintf("%d:%d", s.Start+1, s.End+1)
	}
	return fmt.Sprintf("%d:%d:%d", s.Start+1, s.End+1, s.Step)
}

// Normalize validates raw against an input of nLines lines and converts it
// to zero-based form.
//
// Negative numbers count from the end (-1 is the last line). An open start
// is the first line and an open end is the last line, whatever the step, so
// a reverse range needs both bounds ("5:1:-1"). A stepped range is
// tightened: its end becomes the last line actually reached from its start.
func Normalize(raw Raw, nLines int) (Selector, error) {
	if raw.Kind == KindSingle {
		line, err := resolve(raw, raw.Start, 0, nLines)
		if err != nil {
			return Selector{}, err
		}
		return Single(line), nil
	}

	step := 1
	if raw.Step != nil {
		step = *raw.Step
	}
	if step == 0 {
		return Selector{}, newError(raw.Token, KindZeroStep)
	}

	start, err := resolve(raw, raw.Start, 0, nLines)
	if err != nil {
		return Selector{}, err
	}
	end, err := resolve(raw, raw.End, nLines-1, nLines)
	if err != nil {
		return Selector{}, err
	}

	if step > 0 && start > end {
		return Selector{}, newError(raw.Token, KindInvertedPositive)
	}
	if step < 0 && start < end {
		return Selector{}, newError(raw.Token, KindInvertedNegative)
	}

	// step is unbounded; compare before negating it.
	dist := abs(end - start)
	if step > dist || step < -dist {
		return Single(start), nil
	}
	stride := abs(step)
	span := dist / stride * stride
	if step < 0 {
		span = -span
	}
	return Selector{Start: start, End: start + span, Step: step}, nil
}

// NormalizeAll normalizes every selector, stopping at the first error.
func NormalizeAll(raws []Raw, nLines int) ([]Selector, error) {
	sels := make([]Selector, 0, len(raws))
	for _, raw := range raws {
		sel, err := Normalize(raw, nLines)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

// resolve converts a one-based bound to a zero-based line. A nil bound
// yields natural unchanged.
func resolve(raw Raw, bound *int, natural, nLines int) (int, error) {
	if bound == nil {
		return natural, nil
	}
	k := *bound
	if k == 0 {
		return 0, newError(raw.Token, KindZero)
	}
	if k < -nLines || k > nLines {
		e := newError(raw.Token, KindOutOfRange)
		e.Value = k
		e.NLines = nLines
		return 0, e
	}
	if k < 0 {
		return nLines + k, nil
	}
	return k - 1, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
