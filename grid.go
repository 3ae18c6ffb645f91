// grid.go: shared pattern history counter grid (second level)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

// counterGrid is a 2^k x 2^m grid of saturating counters shared by all
// threads. Rows come from history bits, columns from address bits.
// Cells are stored row-major in one slice; the shape never changes.
type counterGrid struct {
	cells   []SaturatingCounter
	colBits uint
	rowMask uint64 // 2^k - 1
	colMask uint64 // 2^m - 1
}

func newCounterGrid(rowBits, colBits, counterBits int) counterGrid {
	n := 1 << uint(rowBits+colBits) // #nosec G115 - k+m <= MaxGridBits
	g := counterGrid{
		cells:   make([]SaturatingCounter, n),
		colBits: uint(colBits), // #nosec G115 - bounded by Validate
		rowMask: lowMask(rowBits),
		colMask: lowMask(colBits),
	}
	proto := newCounter(counterBits)
	for i := range g.cells {
		g.cells[i] = proto
	}
	return g
}

// row extracts the low k bits of a history value.
func (g *counterGrid) row(history uint64) uint64 {
	return history & g.rowMask
}

// column extracts the low m bits of a branch address.
func (g *counterGrid) column(addr Addr) uint64 {
	return uint64(addr) & g.colMask
}

// cellAt returns the counter selected by a history value and an address.
func (g *counterGrid) cellAt(history uint64, addr Addr) *SaturatingCounter {
	return g.at(g.row(history), g.column(addr))
}

// at returns the counter at an already-masked row and column.
func (g *counterGrid) at(row, col uint64) *SaturatingCounter {
	return &g.cells[row<<g.colBits|col]
}

func (g *counterGrid) rows() int {
	return int(g.rowMask) + 1
}

func (g *counterGrid) columns() int {
	return int(g.colMask) + 1
}

func (g *counterGrid) reset() {
	for i := range g.cells {
		g.cells[i].reset()
	}
}

// histogram counts cells per counter value; index i holds the number of
// cells whose value is i.
func (g *counterGrid) histogram() []uint64 {
	if len(g.cells) == 0 {
		return nil
	}
	out := make([]uint64, int(g.cells[0].Max())+1)
	for i := range g.cells {
		out[g.cells[i].value]++
	}
	return out
}
