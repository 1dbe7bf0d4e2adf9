// Package marks keeps the two most recent playback marks that bound a clip.
package marks

import "time"

// Window is a two-slot ring of recorded positions. Slots may hold the
// positions in either temporal order; Span sorts them on read.
type Window struct {
	slots    [2]time.Duration
	next     int // slot the next Record overwrites (the oldest)
	duration time.Duration
}

// New returns a window bounded by duration with both marks at zero.
func New(duration time.Duration) *Window {
	return &Window{duration: max(duration, 0)}
}

// Record pushes pos, evicting the oldest mark.
func (w *Window) Record(pos time.Duration) {
	w.slots[w.next] = w.clamp(pos)
	w.next = 1 - w.next
}

// Span returns the marks as (left, right) with left <= right.
func (w *Window) Span() (left, right time.Duration) {
	a, b := w.slots[0], w.slots[1]
	return min(a, b), max(a, b)
}

// NudgeLeft moves the left bound by delta without crossing the right bound.
func (w *Window) NudgeLeft(delta time.Duration) {
	l, r := w.Span()
	l = min(w.clamp(l+delta), r)
	w.replace(l, r)
}

// NudgeRight moves the right bound by delta without crossing the left bound.
func (w *Window) NudgeRight(delta time.Duration) {
	l, r := w.Span()
	r = max(w.clamp(r+delta), l)
	w.replace(l, r)
}

// replace swaps both slots in a single assignment. Pushing the pair one
// value at a time would let the second push evict the first.
func (w *Window) replace(l, r time.Duration) {
	w.slots = [2]time.Duration{l, r}
	w.next = 0
}

func (w *Window) clamp(d time.Duration) time.Duration {
	return min(max(d, 0), w.duration)
}
