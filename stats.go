package qoi

// Stats tallies how many times each opcode kind was emitted during an
// Encode call. It is a pluggable collaborator, not a global flag in the
// hot loop: callers construct one and pass it alongside Options, and the
// encoder invokes its Observe method once per emission.
type Stats struct {
	counts [numOpKinds]uint64
}

// Observe records one emission of the given opcode kind.
func (s *Stats) Observe(k opKind) {
	if s == nil {
		return
	}
	s.counts[k]++
}

// Count returns the number of times the named opcode kind was emitted.
func (s *Stats) Count(name string) uint64 {
	if s == nil {
		return 0
	}
	for k := opKind(0); k < numOpKinds; k++ {
		if k.String() == name {
			return s.counts[k]
		}
	}
	return 0
}

// Total returns the number of opcodes emitted across all kinds.
func (s *Stats) Total() uint64 {
	if s == nil {
		return 0
	}
	var total uint64
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Each calls fn once per opcode kind with its name and count, in a fixed
// order: RGB, INDEX, DIFF, LUMA, RUN, RGBA.
func (s *Stats) Each(fn func(name string, count uint64)) {
	if s == nil {
		return
	}
	for k := opKind(0); k < numOpKinds; k++ {
		fn(k.String(), s.counts[k])
	}
}

// byteLen returns the encoded opcode length for k, tag byte included.
func (k opKind) byteLen() int {
	switch k {
	case opKindIndex:
		return lenIndex
	case opKindDiff:
		return lenDiff
	case opKindLuma:
		return lenLuma
	case opKindRun:
		return lenRun
	case opKindRGB:
		return lenRGB
	case opKindRGBA:
		return lenRGBA
	default:
		return 0
	}
}

// BytesEncoded returns the total opcode-body byte count implied by the
// recorded counts: sum over kinds of count*byteLen. It does not include
// container framing (header, end marker).
func (s *Stats) BytesEncoded() uint64 {
	if s == nil {
		return 0
	}
	var total uint64
	for k := opKind(0); k < numOpKinds; k++ {
		total += s.counts[k] * uint64(k.byteLen())
	}
	return total
}
