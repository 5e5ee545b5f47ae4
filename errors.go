package qoi

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// FormatError reports a malformed QOI byte stream or container.
type FormatError string

func (e FormatError) Error() string { return "qoi: invalid format: " + string(e) }

// Sentinel errors for the codec's core failure modes.
// Callers distinguish them with errors.Is; pixel-source/sink failures are
// wrapped with github.com/pkg/errors so the original cause survives
// alongside a codec-specific message.
var (
	// ErrTruncatedStream is returned by Decode when the byte stream is
	// exhausted before width*height pixels have been produced.
	ErrTruncatedStream = errors.New("qoi: truncated stream")

	// ErrReservedOpcode is returned by Decode when a RUN payload of 62 or
	// 63 is encountered outside the RGB/RGBA full-byte patterns. A
	// conformant encoder never produces this; seeing it means the stream
	// is corrupt or was not produced by this codec.
	ErrReservedOpcode = errors.New("qoi: reserved run-length opcode")

	// ErrDimensionOverflow is returned by Encode when width*height would
	// overflow the worst-case output buffer size computation.
	ErrDimensionOverflow = errors.New("qoi: image dimensions overflow buffer size computation")
)

// wrapSourceErr annotates an error coming from the pixel-source/sink
// collaborator without discarding it, so errors.Is/As still see through
// to the original cause.
func wrapSourceErr(err error, context string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, context)
}
