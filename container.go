package qoi

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"
)

// Container framing constants, matching the standard QOI file format:
// a 14-byte header followed by the opcode body and an 8-byte end marker.
const (
	magic      = "qoif"
	headerSize = 14

	channelsRGB  = 3
	channelsRGBA = 4

	colorspaceSRGB   = 0
	colorspaceLinear = 1
)

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// Encode writes img to w as a complete QOI file: header, core opcode
// stream, end marker. opts may be nil for DefaultOptions(); when
// opts.Stat is set, stats (which may be nil) receives per-opcode counts.
func Encode(w io.Writer, img image.Image, opts *Options, stats *Stats) error {
	opts = opts.orDefault()
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return ErrDimensionOverflow
	}

	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}

	if err := writeHeader(bw, width, height, opts); err != nil {
		return err
	}

	src := NewImageSource(img)
	if err := EncodeStream(bw, src, opts, stats); err != nil {
		return err
	}

	if _, err := bw.Write(endMarker[:]); err != nil {
		return err
	}
	return bw.Flush()
}

func writeHeader(w io.Writer, width, height int, opts *Options) error {
	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(width))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(height))
	if opts.RGBA {
		hdr[12] = channelsRGBA
	} else {
		hdr[12] = channelsRGB
	}
	hdr[13] = colorspaceSRGB
	_, err := w.Write(hdr[:])
	return err
}

// Header is the decoded contents of a QOI file header.
type Header struct {
	Width, Height int
	Channels      int
	Colorspace    int
}

func readHeader(r io.Reader) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, ErrTruncatedStream
		}
		return Header{}, err
	}
	if string(hdr[0:4]) != magic {
		return Header{}, FormatError("bad magic bytes")
	}
	width := binary.BigEndian.Uint32(hdr[4:8])
	height := binary.BigEndian.Uint32(hdr[8:12])
	if width == 0 || height == 0 {
		return Header{}, FormatError("zero dimension")
	}
	return Header{
		Width:      int(width),
		Height:     int(height),
		Channels:   int(hdr[12]),
		Colorspace: int(hdr[13]),
	}, nil
}

// Decode reads a complete QOI file from r and returns the decoded image
// as an *image.NRGBA, along with its header. opts may be nil for
// DefaultOptions(); it should match the Options the stream was encoded
// with (RGBA/TwosComplement affect payload interpretation).
func Decode(r io.Reader, opts *Options) (*image.NRGBA, Header, error) {
	opts = opts.orDefault()

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	hdr, err := readHeader(br)
	if err != nil {
		return nil, Header{}, err
	}

	img, sink := NewNRGBASink(hdr.Width, hdr.Height)
	if err := DecodeStream(br, sink, hdr.Width, hdr.Height, opts); err != nil {
		return nil, hdr, err
	}

	var marker [8]byte
	if _, err := io.ReadFull(br, marker[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return img, hdr, ErrTruncatedStream
		}
		return img, hdr, err
	}
	if marker != endMarker {
		return img, hdr, FormatError("missing end marker")
	}

	return img, hdr, nil
}
