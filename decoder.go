package qoi

import (
	"bufio"
	"io"
)

// reader is the buffered-reader seam the decoder reads through, mirroring
// writer in encoder.go: either an io.Reader already satisfying it, or a
// bufio.Reader wrapped around one that doesn't.
type reader interface {
	io.Reader
	io.ByteReader
}

// decoder holds the per-call state exclusively owned by one DecodeStream
// invocation, the mirror image of encoder.
type decoder struct {
	r   reader
	err error

	opts *Options

	prev  Pixel
	index indexTable
	run   runState
}

func (d *decoder) readByte() byte {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.err = err
		return 0
	}
	return b
}

// store records p in the index table and as the new previous-pixel
// register, the bookkeeping every non-INDEX, non-RUN opcode performs
// after reconstructing a pixel.
func (d *decoder) store(p Pixel) {
	hash := p.hash(d.opts.RGBA)
	d.index.store(hash, p)
	d.prev = p
}

// next decodes and returns the single next pixel in scan order, advancing
// whatever run/opcode state that requires. It does not itself know the
// image's remaining pixel budget; DecodeStream stops calling it once
// width*height pixels have been produced.
func (d *decoder) next() Pixel {
	if d.run.active {
		if d.run.count == 0 {
			d.run.active = false
		} else {
			d.run.count--
		}
		return d.prev
	}

	o := d.decodeOp()
	if d.err != nil {
		return Pixel{}
	}

	switch v := o.(type) {
	case opRGB:
		p := Pixel{R: v.r, G: v.g, B: v.b, A: d.prev.A}
		d.store(p)
		return p

	case opRGBA:
		p := Pixel{R: v.r, G: v.g, B: v.b, A: v.a}
		d.store(p)
		return p

	case opIndex:
		p := d.index.lookup(v.index)
		d.prev = p
		return p

	case opDiff:
		p := applyDiff(d.prev, v)
		d.store(p)
		return p

	case opLuma:
		p := applyLuma(d.prev, v)
		d.store(p)
		return p

	case opRun:
		p := d.prev
		if v.count > 0 {
			d.run.active = true
			d.run.count = v.count - 1
		}
		return p
	}

	panic("qoi: unreachable opcode variant")
}

// decodeOp reads one opcode from the stream and returns its typed
// payload, applying the configured bias (or two's-complement) decoding
// to DIFF/LUMA deltas but not yet reconstructing a pixel — that is
// applyDiff/applyLuma's job, kept separate so the predictor math can be
// exercised independently of stream reading.
func (d *decoder) decodeOp() op {
	tag := d.readByte()
	if d.err != nil {
		return nil
	}

	switch {
	case tag == opRGBTag:
		r := d.readByte()
		g := d.readByte()
		b := d.readByte()
		return opRGB{r: r, g: g, b: b}

	case tag == opRGBATag:
		r := d.readByte()
		g := d.readByte()
		b := d.readByte()
		a := d.readByte()
		return opRGBA{r: r, g: g, b: b, a: a}

	case tag&opcodeMask == opIndexTag:
		return opIndex{index: tag & dataMask}

	case tag&opcodeMask == opDiffTag:
		var dr, dg, db int8
		if d.opts.TwosComplement {
			dr = signExtend2(int8(tag>>4) & 0x3)
			dg = signExtend2(int8(tag>>2) & 0x3)
			db = signExtend2(int8(tag) & 0x3)
		} else {
			dr = int8((tag>>4)&0x3) - diffBias
			dg = int8((tag>>2)&0x3) - diffBias
			db = int8(tag&0x3) - diffBias
		}
		return opDiff{dr: dr, dg: dg, db: db}

	case tag&opcodeMask == opLumaTag:
		second := d.readByte()
		var dg, drdg, dbdg int8
		if d.opts.TwosComplement {
			dg = signExtend6(int8(tag & 0x3f))
			drdg = signExtend4(int8(second >> 4))
			dbdg = signExtend4(int8(second & 0xf))
		} else {
			dg = int8(tag&0x3f) - lumaGBias
			drdg = int8(second>>4) - lumaRBBias
			dbdg = int8(second&0xf) - lumaRBBias
		}
		return opLuma{dg: dg, drdg: drdg, dbdg: dbdg}

	case tag&opcodeMask == opRunTag:
		count := tag & dataMask
		if count == 62 || count == 63 {
			d.err = ErrReservedOpcode
			return nil
		}
		return opRun{count: count}

	default:
		d.err = ErrReservedOpcode
		return nil
	}
}

// applyDiff reconstructs the pixel a DIFF opcode encodes relative to
// prev. Alpha is carried over unchanged, matching the invariant that a
// DIFF opcode never fires across an alpha change.
func applyDiff(prev Pixel, o opDiff) Pixel {
	return Pixel{
		R: wrapAdd(prev.R, o.dr),
		G: wrapAdd(prev.G, o.dg),
		B: wrapAdd(prev.B, o.db),
		A: prev.A,
	}
}

// applyLuma reconstructs the pixel a LUMA opcode encodes relative to
// prev, recombining the green-relative red/blue deltas with dg.
func applyLuma(prev Pixel, o opLuma) Pixel {
	dr := o.dg + o.drdg
	db := o.dg + o.dbdg
	return Pixel{
		R: wrapAdd(prev.R, dr),
		G: wrapAdd(prev.G, o.dg),
		B: wrapAdd(prev.B, db),
		A: prev.A,
	}
}

func signExtend2(v int8) int8 {
	if v&0x2 != 0 {
		return v - 4
	}
	return v
}

func signExtend4(v int8) int8 {
	if v&0x8 != 0 {
		return v - 16
	}
	return v
}

func signExtend6(v int8) int8 {
	if v&0x20 != 0 {
		return v - 64
	}
	return v
}

// DecodeStream reads width*height pixels of core QOI opcode stream from r
// and delivers each to dst via Set, in row-major order. It does not read
// a container header or end marker; the caller supplies dimensions
// directly, the mirror of EncodeStream taking them from PixelSource.
// opts may be nil for DefaultOptions().
func DecodeStream(r io.Reader, dst PixelSink, width, height int, opts *Options) error {
	opts = opts.orDefault()
	if width <= 0 || height <= 0 {
		return ErrDimensionOverflow
	}

	d := &decoder{opts: opts}
	if rr, ok := r.(reader); ok {
		d.r = rr
	} else {
		d.r = bufio.NewReader(r)
	}
	d.prev = initialPixel.withAlphaPolicy(opts.RGBA)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := d.next()
			if d.err != nil {
				if d.err == io.EOF || d.err == io.ErrUnexpectedEOF {
					return ErrTruncatedStream
				}
				return d.err
			}
			p = p.withAlphaPolicy(opts.RGBA)
			if err := dst.Set(x, y, p); err != nil {
				return wrapSourceErr(err, "qoi: pixel sink")
			}
		}
	}
	return nil
}
