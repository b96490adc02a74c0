package extract

import (
	"errors"
	"fmt"
	"io"

	"github.com/praetorian-inc/line/pkg/linereader"
)

// Stats describes the work done by one extraction.
type Stats struct {
	Lines        int  // lines in the input
	IndexHit     bool // line count came from the index
	Planned      int  // distinct lines in the plan
	LinesRead    int  // lines copied into the cache
	LinesSkipped int  // lines passed over without copying
	Truncated    bool // input ended before the plan did
}

// Fill reads every line of plan from r into a new cache, in one forward
// pass, and freezes the cache.
//
// If the input ends early, for example because an index entry was stale,
// Fill stops without error and sets Stats.Truncated; missing lines are
// simply absent from the cache.
func Fill(r *linereader.Reader, plan *Plan) (*Cache, Stats, error) {
	cache := NewCache(plan.Len())
	var stats Stats
	start := r.Current()

read:
	for _, iv := range plan.Intervals {
		for line := iv.Low; line <= iv.High; line++ {
			if cache.Has(line) {
				continue
			}
			b, err := r.ReadLine(line)
			if errors.Is(err, io.EOF) {
				stats.Truncated = true
				break read
			}
			if err != nil {
				return nil, stats, fmt.Errorf("filling line cache: %w", err)
			}
			if _, err := cache.Insert(line, b); err != nil {
				return nil, stats, err
			}
			stats.LinesRead++
		}
	}

	stats.LinesSkipped = r.Current() - start - stats.LinesRead
	cache.Freeze()
	return cache, stats, nil
}
