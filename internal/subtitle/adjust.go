package subtitle

import (
	"fmt"
	"time"
)

// default timing rules for AdjustShortDurations
const (
	DefaultMinDuration      = 100 * time.Millisecond
	DefaultMinEntryDuration = 100 * time.Millisecond
	DefaultMinGap           = 10 * time.Millisecond
)

// AdjustOptions bounds how far AdjustShortDurations may stretch an
// entry or shrink its neighbors.
type AdjustOptions struct {
	// entries displayed shorter than this get repaired
	MinDuration time.Duration
	// floor a neighboring entry may be shrunk to when borrowed from
	MinEntryDuration time.Duration
	// gap preserved between consecutive entries
	MinGap time.Duration
}

func DefaultAdjustOptions() AdjustOptions {
	return AdjustOptions{
		MinDuration:      DefaultMinDuration,
		MinEntryDuration: DefaultMinEntryDuration,
		MinGap:           DefaultMinGap,
	}
}

// Modification records one entry the adjuster touched, including
// entries whose neighbors had no slack to give.
type Modification struct {
	Number      int
	Text        string
	OldDuration time.Duration
	NewDuration time.Duration
}

func (m Modification) String() string {
	return fmt.Sprintf(
		"Entry %d ('%.30s...'): Duration %dms → %dms",
		m.Number,
		m.Text,
		m.OldDuration.Milliseconds(),
		m.NewDuration.Milliseconds(),
	)
}

// AdjustShortDurations lengthens every entry displayed for less than
// opts.MinDuration, in one forward pass over the list. The first entry
// extends its end into the following gap (unbounded when it is the
// only entry), the last entry pulls its start back into the preceding
// gap, and a middle entry takes half the deficit from the previous
// entry's tail and extends the other half into the gap before the next
// entry. Every amount is clamped by the neighbor's slack, so a repair
// may land short of MinDuration or change nothing at all; each
// under-threshold entry still produces a Modification. Entries are
// modified in place.
func AdjustShortDurations(entries []Entry, opts AdjustOptions) []Modification {
	var mods []Modification

	for i := range entries {
		duration := entries[i].Duration()
		if duration >= opts.MinDuration {
			continue
		}
		needed := opts.MinDuration - duration

		switch {
		case i == 0:
			extend := needed
			if i+1 < len(entries) {
				room := entries[i+1].Start - entries[i].End - opts.MinGap
				extend = min(needed, max(0, room))
			}
			entries[i].End += extend

		case i == len(entries)-1:
			shift := needed
			if i > 0 {
				room := entries[i].Start - entries[i-1].End - opts.MinGap
				shift = min(needed, max(0, room))
			}
			entries[i].Start -= shift

		default:
			adjustMiddleEntry(entries, i, opts)
		}

		mods = append(mods, Modification{
			Number:      entries[i].Number,
			Text:        entries[i].Text,
			OldDuration: duration,
			NewDuration: entries[i].Duration(),
		})
	}

	return mods
}

// adjustMiddleEntry repairs an entry with neighbors on both sides:
// half the deficit is borrowed from the previous entry by moving the
// shared boundary back, half is an extension into the following gap.
// The borrow never shrinks the previous entry below MinEntryDuration
// and the extension never closes the gap below MinGap.
func adjustMiddleEntry(entries []Entry, i int, opts AdjustOptions) {
	prev := &entries[i-1]
	cur := &entries[i]
	next := &entries[i+1]

	needed := opts.MinDuration - cur.Duration()

	borrow := min(needed/2, max(0, prev.Duration()-opts.MinEntryDuration))
	if borrow > 0 {
		prev.End -= borrow
		cur.Start -= borrow
	}

	gap := next.Start - cur.End
	extend := min(needed/2, max(0, gap-opts.MinGap))
	if extend > 0 {
		cur.End += extend
	}
}
