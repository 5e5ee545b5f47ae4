package qoi

// runState tracks the encoder's IDLE/RUNNING(k) run-length accumulator.
// The zero value is IDLE.
type runState struct {
	active bool
	count  uint8 // additional repeats beyond the first match, 0..maxRunLength
}

// extend advances the accumulator on a pixel equal to the run's anchor
// pixel. When the counter is already at maxRunLength, storing one more
// match would require the reserved value 62, so this flushes the run
// immediately and folds the current (still-matching) pixel into a fresh
// run rather than discarding it — behaviorally identical to "emit
// RUN(61), then re-process this pixel", since re-processing a pixel that
// still equals the anchor can only ever re-enter RUNNING(0).
func (r *runState) extend() (flushed uint8, didFlush bool) {
	if !r.active {
		r.active = true
		r.count = 0
		return 0, false
	}
	if r.count == maxRunLength {
		flushed = r.count
		r.count = 0
		return flushed, true
	}
	r.count++
	return 0, false
}

// flush ends the run unconditionally (on a non-matching pixel or at end
// of image) and returns the stored count for the RUN opcode payload.
func (r *runState) flush() uint8 {
	count := r.count
	r.active = false
	r.count = 0
	return count
}
