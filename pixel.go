package qoi

// Pixel is a four-channel color value. Alpha is meaningful only when the
// active Options have RGBA enabled; otherwise it is held at 0xFF so that
// index-table comparisons stay well defined (see Options.RGBA).
type Pixel struct {
	R, G, B, A uint8
}

// initialPixel is the previous-pixel register's value at the start of
// every encode/decode call, per the standard QOI reference.
var initialPixel = Pixel{R: 0, G: 0, B: 0, A: 255}

// equal reports whether p and o are identical across all meaningful
// channels. In RGBA mode alpha participates; in RGB-only mode it is
// excluded, matching the policy applied to hash and LUT storage.
func (p Pixel) equal(o Pixel, rgba bool) bool {
	if p.R != o.R || p.G != o.G || p.B != o.B {
		return false
	}
	if !rgba {
		return true
	}
	return p.A == o.A
}

// hash computes the index-table slot for p: (3r + 5g + 7b + 11a) mod 64,
// using byte arithmetic throughout, matching the C reference's use of
// uint8_t-width multiplications.
func (p Pixel) hash(rgba bool) uint8 {
	a := p.A
	if !rgba {
		a = 0xff
	}
	h := p.R*3 + p.G*5 + p.B*7 + a*11
	return h & 0x3f
}

// withAlphaPolicy returns p with alpha normalized to 0xFF when rgba is
// false, the policy applied uniformly at index-table store and compare
// time in RGB-only builds.
func (p Pixel) withAlphaPolicy(rgba bool) Pixel {
	if !rgba {
		p.A = 0xff
	}
	return p
}

// channelDiff computes a modular 8-bit difference, returned as a signed
// int8 in the conventional wrap-around interpretation: a value of 255
// (i.e. -1 mod 256) reads back as -1, not 255.
func channelDiff(cur, prev uint8) int8 {
	return int8(cur - prev)
}

// wrapAdd reconstructs a channel value from a previous value and a
// signed delta, using explicit 8-bit modular addition.
func wrapAdd(prev uint8, delta int8) uint8 {
	return prev + uint8(delta)
}
