// Package qoi implements the QOI (Quite OK Image) codec: a lossless,
// single-pass image compression format built from five (RGB-only) or six
// (RGBA) fixed-width opcodes. The package exposes the core encoder/decoder state machine —
// opcode selection, the 64-slot index table, and the run-length
// accumulator — plus an outer Encode/Decode pair that frames the core
// stream with the standard QOI file header and end marker.
package qoi
