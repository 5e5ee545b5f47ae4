package qoi

import (
	"bufio"
	"io"
	"math"
)

// writer is the buffered-writer seam the encoder writes through: either
// an io.Writer already satisfying it, or a bufio.Writer wrapped around
// one that doesn't, for cheap byte-at-a-time writes with a single
// deferred Flush.
type writer interface {
	Flush() error
	io.Writer
	io.ByteWriter
}

// framingSlack is the small allowance added on top of the theoretical
// 5-bytes-per-pixel worst case; the core stream itself never needs it,
// but callers sizing a single pre-allocated buffer for the core stream
// plus a container's header/end-marker want the headroom.
const framingSlack = 32

// WorstCaseSize returns the maximum number of bytes EncodeStream can
// write for an image of the given dimensions: every pixel encoded as
// RGBA (5 bytes) plus a small framing allowance. It returns
// ErrDimensionOverflow if width*height would overflow the computation.
func WorstCaseSize(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, ErrDimensionOverflow
	}
	w, h := int64(width), int64(height)
	pixels := w * h
	if pixels/w != h {
		return 0, ErrDimensionOverflow
	}
	const maxPerPixel = lenRGBA
	if pixels > (math.MaxInt-framingSlack)/maxPerPixel {
		return 0, ErrDimensionOverflow
	}
	return int(pixels*maxPerPixel) + framingSlack, nil
}

// encoder holds the per-call state exclusively owned by one EncodeStream
// invocation: output writer, running index table, previous-pixel
// register, and run accumulator. None of it survives past the call.
type encoder struct {
	w   writer
	err error

	opts  *Options
	stats *Stats

	prev  Pixel
	index indexTable
	run   runState
}

func (e *encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) observe(k opKind) {
	if e.opts.Stat {
		e.stats.Observe(k)
	}
}

// emitRun writes a single RUN opcode for the given stored count (0..61).
func (e *encoder) emitRun(count uint8) {
	e.writeByte(opRunTag | count)
	e.observe(opKindRun)
}

// diffByte packs three 2-bit channel deltas into a DIFF payload byte,
// applying the standard +2 bias unless TwosComplement is set.
func (e *encoder) diffByte(dr, dg, db int8) byte {
	if e.opts.TwosComplement {
		return opDiffTag | (byte(dr)&0x3)<<4 | (byte(dg)&0x3)<<2 | (byte(db) & 0x3)
	}
	return opDiffTag | (byte(dr+diffBias)&0x3)<<4 | (byte(dg+diffBias)&0x3)<<2 | (byte(db+diffBias) & 0x3)
}

// lumaBytes packs the LUMA payload: first byte carries the tag and
// biased dg, second carries the biased (dr-dg, db-dg) nibbles.
func (e *encoder) lumaBytes(dg, drdg, dbdg int8) (byte, byte) {
	if e.opts.TwosComplement {
		first := opLumaTag | byte(dg)&0x3f
		second := (byte(drdg)&0xf)<<4 | byte(dbdg)&0xf
		return first, second
	}
	first := opLumaTag | (byte(dg+lumaGBias) & 0x3f)
	second := (byte(drdg+lumaRBBias)&0xf)<<4 | (byte(dbdg+lumaRBBias) & 0xf)
	return first, second
}

// emitPixel runs the RUN > INDEX > DIFF > LUMA > RGB/RGBA opcode
// selector for one pixel that is not part of an active run (RUN is
// handled by the caller before this is reached). It writes exactly one
// opcode and updates the previous-pixel register and, for every opcode
// except INDEX, the index table.
func (e *encoder) emitPixel(p Pixel) {
	rgba := e.opts.RGBA
	p = p.withAlphaPolicy(rgba)
	hash := p.hash(rgba)

	if e.index.lookup(hash).equal(p, rgba) {
		e.writeByte(opIndexTag | hash)
		e.observe(opKindIndex)
		e.prev = p
		return
	}

	alphaUnchanged := !rgba || p.A == e.prev.A
	if alphaUnchanged {
		dr := channelDiff(p.R, e.prev.R)
		dg := channelDiff(p.G, e.prev.G)
		db := channelDiff(p.B, e.prev.B)

		if inRange(dr, -2, 1) && inRange(dg, -2, 1) && inRange(db, -2, 1) {
			e.writeByte(e.diffByte(dr, dg, db))
			e.observe(opKindDiff)
			e.index.store(hash, p)
			e.prev = p
			return
		}

		drdg := dr - dg
		dbdg := db - dg
		if inRange(dg, -32, 31) && inRange(drdg, -8, 7) && inRange(dbdg, -8, 7) {
			b1, b2 := e.lumaBytes(dg, drdg, dbdg)
			e.writeByte(b1)
			e.writeByte(b2)
			e.observe(opKindLuma)
			e.index.store(hash, p)
			e.prev = p
			return
		}

		e.writeByte(opRGBTag)
		e.write([]byte{p.R, p.G, p.B})
		e.observe(opKindRGB)
		e.index.store(hash, p)
		e.prev = p
		return
	}

	e.writeByte(opRGBATag)
	e.write([]byte{p.R, p.G, p.B, p.A})
	e.observe(opKindRGBA)
	e.index.store(hash, p)
	e.prev = p
}

func inRange(v int8, lo, hi int8) bool {
	return v >= lo && v <= hi
}

// EncodeStream writes the core QOI opcode stream for src to w: no file
// header, no end marker, just the opcode body. opts may be nil for
// DefaultOptions(). stats may be nil; when non-nil and opts.Stat is true
// it receives per-opcode counts.
func EncodeStream(w io.Writer, src PixelSource, opts *Options, stats *Stats) error {
	opts = opts.orDefault()
	width, height := src.Dimensions()
	if width <= 0 || height <= 0 {
		return ErrDimensionOverflow
	}
	if _, err := WorstCaseSize(width, height); err != nil {
		return err
	}

	e := &encoder{opts: opts, stats: stats}
	if ww, ok := w.(writer); ok {
		e.w = ww
	} else {
		e.w = bufio.NewWriter(w)
	}
	e.prev = initialPixel.withAlphaPolicy(opts.RGBA)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p, err := src.Get(x, y)
			if err != nil {
				return wrapSourceErr(err, "qoi: pixel source")
			}
			p = p.withAlphaPolicy(opts.RGBA)

			if p.equal(e.prev, opts.RGBA) {
				if flushed, didFlush := e.run.extend(); didFlush {
					e.emitRun(flushed)
				}
				continue
			}

			if e.run.active {
				e.emitRun(e.run.flush())
			}
			e.emitPixel(p)
		}
	}

	if e.run.active {
		e.emitRun(e.run.flush())
	}

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
