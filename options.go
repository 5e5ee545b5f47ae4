package qoi

// Options are the codec's runtime configuration flags. A nil *Options is
// equivalent to DefaultOptions().
type Options struct {
	// RGBA enables the RGBA opcode and includes alpha in pixel hashing
	// and equality. When false, the codec runs in RGB-only mode: alpha
	// is forced to 0xFF at every index-table store and compare, and the
	// RGBA opcode is never emitted.
	RGBA bool

	// TwosComplement writes DIFF and LUMA payloads as raw two's-complement
	// bit patterns instead of the standard biased encoding (+2 for DIFF,
	// +32/+8 for LUMA). This is a non-standard variant: streams it
	// produces are not readable by conformant QOI decoders, including
	// this package's own Decode when TwosComplement is unset. New code
	// should leave it false.
	TwosComplement bool

	// Stat, when true, causes Encode/EncodeStream to populate the Stats
	// argument they were given with per-opcode emission counts.
	Stat bool
}

// DefaultOptions returns the standard, interoperable QOI configuration:
// RGBA enabled, standard biased DIFF/LUMA encoding, statistics disabled.
func DefaultOptions() *Options {
	return &Options{RGBA: true}
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}
