package qoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexTableZeroValueIsZeroPixel(t *testing.T) {
	var tbl indexTable
	assert.Equal(t, Pixel{}, tbl.lookup(0))
	assert.Equal(t, Pixel{}, tbl.lookup(63))
}

func TestIndexTableStoreAndLookup(t *testing.T) {
	tbl := newIndexTable()
	p := Pixel{R: 10, G: 20, B: 30, A: 255}
	h := p.hash(true)
	tbl.store(h, p)
	assert.Equal(t, p, tbl.lookup(h))
}

func TestIndexTableOverwrite(t *testing.T) {
	tbl := newIndexTable()
	a := Pixel{R: 1, G: 1, B: 1, A: 255}
	b := Pixel{R: 2, G: 2, B: 2, A: 255}
	tbl.store(5, a)
	tbl.store(5, b)
	assert.Equal(t, b, tbl.lookup(5))
}
