// Package subtitle provides caption cue types and SRT handling.
package subtitle

import (
	"sort"
	"strings"
	"time"
)

// Cue is a single timestamped caption entry. Timestamps are relative to
// whatever timeline the owning track uses: a slide's own audio clip before
// composition, the full video after offset shifting.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Duration returns the display duration of the cue.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Valid reports whether the cue has usable timing: non-negative start and
// end strictly after start.
func (c Cue) Valid() bool {
	return c.Start >= 0 && c.End > c.Start
}

// IsEmpty reports whether the cue carries no text.
func (c Cue) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Track is an ordered sequence of cues.
type Track []Cue

// TotalDuration returns the end timestamp of the last cue.
func (t Track) TotalDuration() time.Duration {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// Shifted returns a copy of the track with every cue moved by offset.
func (t Track) Shifted(offset time.Duration) Track {
	out := make(Track, len(t))
	for i, c := range t {
		out[i] = Cue{
			Index: c.Index,
			Start: c.Start + offset,
			End:   c.End + offset,
			Text:  c.Text,
		}
	}
	return out
}

// ClampedTo returns a copy of the track with cue ends capped at limit and
// cues that start at or beyond the limit dropped. Used to keep a slide's
// cues inside that slide's clip window.
func (t Track) ClampedTo(limit time.Duration) Track {
	out := make(Track, 0, len(t))
	for _, c := range t {
		if c.Start >= limit {
			continue
		}
		if c.End > limit {
			c.End = limit
		}
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

// Normalized returns a copy sorted by start time with overlaps repaired:
// a cue starting before the previous cue ends is pushed to that end, and
// a cue squeezed past its own end by the push is dropped. The result is
// always time-ordered and pairwise non-overlapping.
func (t Track) Normalized() Track {
	sorted := make(Track, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make(Track, 0, len(sorted))
	var prevEnd time.Duration
	for _, c := range sorted {
		if c.Start < prevEnd {
			c.Start = prevEnd
		}
		if !c.Valid() {
			continue
		}
		out = append(out, c)
		prevEnd = c.End
	}
	return out
}

// Renumbered returns a copy with 1-based sequential indices, the numbering
// SRT files carry.
func (t Track) Renumbered() Track {
	out := make(Track, len(t))
	for i, c := range t {
		c.Index = i + 1
		out[i] = c
	}
	return out
}

// Ordered reports whether cues are time-ordered and pairwise
// non-overlapping.
func (t Track) Ordered() bool {
	for i := 1; i < len(t); i++ {
		if t[i].Start < t[i-1].End {
			return false
		}
	}
	return true
}
