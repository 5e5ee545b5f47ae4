package qoi

import "image"

// imageSource adapts an image.Image to PixelSource. It uses the generic
// At path for every image type except *image.NRGBA, which gets
// a direct-slice fast path below: QOI's channel layout matches NRGBA
// byte-for-byte, so the fast path is a straight copy, not a conversion.
type imageSource struct {
	img image.Image
}

// NewImageSource wraps img as a PixelSource. Any image.Image works;
// *image.NRGBA is recognized and read through its Pix slice directly.
func NewImageSource(img image.Image) PixelSource {
	if n, ok := img.(*image.NRGBA); ok {
		return &nrgbaSource{img: n}
	}
	return &imageSource{img: img}
}

func (s *imageSource) Dimensions() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *imageSource) Get(x, y int) (Pixel, error) {
	b := s.img.Bounds()
	r, g, bl, a := s.img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	// image.Color.RGBA returns 16-bit alpha-premultiplied channels;
	// un-premultiply and narrow to 8 bits the way image/color's
	// NRGBAModel conversion does.
	return unpremultiply(r, g, bl, a), nil
}

// nrgbaSource is the fast path: *image.NRGBA already stores
// non-premultiplied 8-bit RGBA in row-major order, byte-for-byte
// identical to the Pixel layout this package uses.
type nrgbaSource struct {
	img *image.NRGBA
}

func (s *nrgbaSource) Dimensions() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *nrgbaSource) Get(x, y int) (Pixel, error) {
	b := s.img.Bounds()
	i := s.img.PixOffset(b.Min.X+x, b.Min.Y+y)
	px := s.img.Pix[i : i+4 : i+4]
	return Pixel{R: px[0], G: px[1], B: px[2], A: px[3]}, nil
}

// unpremultiply converts a color.Color's 16-bit alpha-premultiplied
// channels to 8-bit straight-alpha, matching color.NRGBAModel's
// conversion exactly (including its zero-alpha special case).
func unpremultiply(r, g, b, a uint32) Pixel {
	if a == 0 {
		return Pixel{}
	}
	r = (r * 0xffff) / a
	g = (g * 0xffff) / a
	b = (b * 0xffff) / a
	return Pixel{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

// NRGBASink adapts an *image.NRGBA to PixelSink via the same direct-slice
// fast path NewImageSource uses on read.
type NRGBASink struct {
	Img *image.NRGBA
}

func (s *NRGBASink) Set(x, y int, p Pixel) error {
	b := s.Img.Bounds()
	i := s.Img.PixOffset(b.Min.X+x, b.Min.Y+y)
	px := s.Img.Pix[i : i+4 : i+4]
	px[0], px[1], px[2], px[3] = p.R, p.G, p.B, p.A
	return nil
}

// NewNRGBASink allocates a fresh *image.NRGBA of the given size and
// returns a sink that writes directly into it, along with the image
// itself for the caller to keep once decoding finishes.
func NewNRGBASink(width, height int) (*image.NRGBA, *NRGBASink) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	return img, &NRGBASink{Img: img}
}
