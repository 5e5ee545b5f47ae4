package qoi

// indexTable is the fixed 64-slot recently-seen-pixel cache shared by the
// encoder and decoder. Both sides must initialize and mutate it under
// identical rules; keeping a single type used by both driver loops is
// what keeps that guarantee from drifting.
type indexTable struct {
	slots [64]Pixel
}

// newIndexTable returns a table with every slot zeroed, including alpha —
// a protocol requirement, not an implementation detail, since the first
// few pixels of an image can legitimately hash-collide with the zero
// slot.
func newIndexTable() indexTable {
	return indexTable{}
}

// lookup returns the pixel currently stored at p's hash slot.
func (t *indexTable) lookup(hash uint8) Pixel {
	return t.slots[hash]
}

// store writes p into its hash slot. Called on encode after every DIFF,
// LUMA, RGB or RGBA emission (not INDEX, whose slot already holds p, nor
// RUN) and, on decode, after every opcode that yields a freshly
// constructed pixel.
func (t *indexTable) store(hash uint8, p Pixel) {
	t.slots[hash] = p
}
