package qoi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource is a minimal PixelSource backed by a flat row-major slice,
// used throughout these tests instead of pulling in the image package.
type sliceSource struct {
	w, h   int
	pixels []Pixel
}

func (s *sliceSource) Dimensions() (int, int) { return s.w, s.h }

func (s *sliceSource) Get(x, y int) (Pixel, error) {
	return s.pixels[y*s.w+x], nil
}

func encodeAll(t *testing.T, px []Pixel, w, h int, opts *Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	src := &sliceSource{w: w, h: h, pixels: px}
	require.NoError(t, EncodeStream(&buf, src, opts, nil))
	return buf.Bytes()
}

func TestEncodeSinglePixelDiff(t *testing.T) {
	got := encodeAll(t, []Pixel{{R: 255, G: 0, B: 0, A: 255}}, 1, 1, nil)
	assert.Equal(t, []byte{0x5A}, got)
}

func TestEncodeTwoIdenticalPixelsRGBThenRun(t *testing.T) {
	px := []Pixel{{R: 10, G: 20, B: 30, A: 255}, {R: 10, G: 20, B: 30, A: 255}}
	got := encodeAll(t, px, 2, 1, nil)
	assert.Equal(t, []byte{0xFE, 0x0A, 0x14, 0x1E, 0xC0}, got)
}

func TestEncodeFirstPixelEqualsInitialEntersRun(t *testing.T) {
	got := encodeAll(t, []Pixel{{R: 0, G: 0, B: 0, A: 255}}, 1, 1, nil)
	assert.Equal(t, []byte{0xC0}, got)
}

func TestEncodeLumaInvalidFallsBackToRGB(t *testing.T) {
	px := []Pixel{
		{R: 100, G: 100, B: 100, A: 255},
		{R: 110, G: 120, B: 130, A: 255},
	}
	got := encodeAll(t, px, 2, 1, nil)
	// first pixel differs from init by more than DIFF/LUMA range -> RGB
	require.True(t, len(got) >= 4)
	assert.Equal(t, byte(0xFE), got[0])
	second := got[4:]
	assert.Equal(t, byte(0xFE), second[0], "dg=+20/dr-dg=-10 is out of LUMA range, must fall to RGB")
}

func TestEncodeLumaValid(t *testing.T) {
	px := []Pixel{
		{R: 100, G: 100, B: 100, A: 255},
		{R: 105, G: 110, B: 115, A: 255},
	}
	got := encodeAll(t, px, 2, 1, nil)
	// second pixel's opcode starts after the first pixel's RGB opcode (4 bytes)
	second := got[4:]
	assert.Equal(t, []byte{0xAA, 0x3D}, second)
}

func TestEncodeAlphaChangeForcesRGBA(t *testing.T) {
	px := []Pixel{
		{R: 10, G: 10, B: 10, A: 255},
		{R: 10, G: 10, B: 10, A: 128},
	}
	got := encodeAll(t, px, 2, 1, nil)
	// first pixel (10,10,10,255) is a LUMA opcode (2 bytes) from the initial pixel
	second := got[2:]
	assert.Equal(t, byte(0xFF), second[0])
	assert.Equal(t, []byte{10, 10, 10, 128}, second[1:])
}

func TestEncodeChannelWrapAroundIsDiffNotRGB(t *testing.T) {
	px := []Pixel{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
	got := encodeAll(t, px, 2, 1, nil)
	// first pixel (255,255,255,255) is itself a DIFF (-1,-1,-1) from the initial pixel
	second := got[1:]
	require.Len(t, second, 1, "wraparound deltas (+1,+1,+1) must stay within DIFF range")
	assert.NotEqual(t, byte(0xFE), second[0])
}

func TestEncodeSixtyTwoRunPixelsSingleOpcode(t *testing.T) {
	px := make([]Pixel, 63)
	px[0] = Pixel{R: 1, G: 2, B: 3, A: 255}
	for i := 1; i < 63; i++ {
		px[i] = px[0]
	}
	got := encodeAll(t, px, 63, 1, nil)
	// LUMA(2 bytes: dg=2, dr-dg=-1, db-dg=1) for the first pixel, then a
	// single RUN(61) for the 62 identical pixels that follow.
	assert.Equal(t, []byte{0xA2, 0x79, 0xC0 | 61}, got)
}

func TestWorstCaseSizeOverflow(t *testing.T) {
	_, err := WorstCaseSize(0, 10)
	assert.ErrorIs(t, err, ErrDimensionOverflow)

	size, err := WorstCaseSize(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4*4*5+framingSlack, size)
}
