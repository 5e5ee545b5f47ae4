// Command qoiconv converts images to and from QOI: a thin CLI front end
// over the library's Encode/Decode, with structured logging and an
// optional per-opcode stat report.
package main

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	qoigo "github.com/dlecorfec/qoigo"
)

var (
	opts    = qoigo.DefaultOptions()
	rgbOnly bool
	stat    bool
	verbose bool
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:   "qoiconv",
		Short: "Encode or decode QOI images",
	}

	encodeCmd := &cobra.Command{
		Use:   "encode <input> <output.qoi>",
		Short: "Encode a PNG/JPEG/GIF/BMP/TIFF image to QOI",
		Args:  cobra.ExactArgs(2),
		RunE:  runEncode,
	}
	encodeCmd.Flags().BoolVar(&rgbOnly, "rgb-only", false, "drop alpha, never emit RGBA opcodes")
	encodeCmd.Flags().BoolVar(&opts.TwosComplement, "twos-complement", false, "non-standard: raw two's-complement DIFF/LUMA payloads")
	encodeCmd.Flags().BoolVar(&stat, "stat", false, "print per-opcode counts after encoding")

	decodeCmd := &cobra.Command{
		Use:   "decode <input.qoi> <output.png>",
		Short: "Decode a QOI image to PNG (JPEG or GIF for .jpg/.jpeg/.gif outputs)",
		Args:  cobra.ExactArgs(2),
		RunE:  runDecode,
	}
	decodeCmd.Flags().BoolVar(&opts.TwosComplement, "twos-complement", false, "non-standard: stream uses raw two's-complement payloads")

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	root.AddCommand(encodeCmd, decodeCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("qoiconv failed")
		os.Exit(1)
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	inPath, outPath := args[0], args[1]

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("qoiconv: open input: %w", err)
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("qoiconv: decode %s: %w", inPath, err)
	}
	log.Debug().Str("format", format).Str("file", inPath).Msg("decoded source image")

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("qoiconv: create output: %w", err)
	}
	defer out.Close()

	opts.RGBA = !rgbOnly
	opts.Stat = stat
	stats := &qoigo.Stats{}

	if err := qoigo.Encode(out, img, opts, stats); err != nil {
		return fmt.Errorf("qoiconv: encode: %w", err)
	}

	b := img.Bounds()
	ev := log.Info().Str("input", inPath).Str("output", outPath).
		Int("width", b.Dx()).Int("height", b.Dy())
	if stat {
		stats.Each(func(name string, count uint64) {
			ev = ev.Uint64(name, count)
		})
		ev = ev.Uint64("bytes", stats.BytesEncoded())
	}
	ev.Msg("encoded")
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	inPath, outPath := args[0], args[1]

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("qoiconv: open input: %w", err)
	}
	defer in.Close()

	img, hdr, err := qoigo.Decode(in, opts)
	if err != nil {
		return fmt.Errorf("qoiconv: decode %s: %w", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("qoiconv: create output: %w", err)
	}
	defer out.Close()

	switch ext := outputEncoding(outPath); ext {
	case "jpeg":
		err = jpeg.Encode(out, img, nil)
	case "gif":
		err = gif.Encode(out, img, nil)
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		return fmt.Errorf("qoiconv: write %s: %w", outPath, err)
	}

	log.Info().Str("input", inPath).Str("output", outPath).
		Int("width", hdr.Width).Int("height", hdr.Height).
		Int("channels", hdr.Channels).Msg("decoded")
	return nil
}

func outputEncoding(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			switch path[i+1:] {
			case "jpg", "jpeg":
				return "jpeg"
			case "gif":
				return "gif"
			}
			return "png"
		}
	}
	return "png"
}
