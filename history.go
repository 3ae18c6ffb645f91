// history.go: per-thread pattern history register tables (first level)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

// historyTable holds one table of 2^a shift registers per thread.
// All threads share a single flat slice; thread t owns
// regs[t<<indexBits : (t+1)<<indexBits].
type historyTable struct {
	regs      []uint64
	indexBits uint
	indexMask uint64 // 2^a - 1
	valueMask uint64 // 2^p - 1
}

func newHistoryTable(threads, indexBits, historyBits int) historyTable {
	return historyTable{
		regs:      make([]uint64, threads<<uint(indexBits)), // #nosec G115 - bounded by Validate
		indexBits: uint(indexBits),                          // #nosec G115 - bounded by Validate
		indexMask: lowMask(indexBits),
		valueMask: lowMask(historyBits),
	}
}

// entryIndex selects the register slot for an address. Always in range.
func (h *historyTable) entryIndex(addr Addr) uint32 {
	return uint32(uint64(addr) & h.indexMask) // #nosec G115 - indexMask < 2^24
}

func (h *historyTable) slot(thread ThreadID, entry uint32) int {
	return int(thread)<<h.indexBits | int(entry)
}

func (h *historyTable) read(thread ThreadID, entry uint32) uint64 {
	return h.regs[h.slot(thread, entry)]
}

// shiftIn records one outcome bit and returns the new register value.
func (h *historyTable) shiftIn(thread ThreadID, entry uint32, taken bool) uint64 {
	i := h.slot(thread, entry)
	v := (h.regs[i]<<1 | bit(taken)) & h.valueMask
	h.regs[i] = v
	return v
}

// write overwrites the register; used for rollback and correction.
func (h *historyTable) write(thread ThreadID, entry uint32, value uint64) {
	h.regs[h.slot(thread, entry)] = value & h.valueMask
}

// clearLow forces the most recent outcome bit to not-taken.
func (h *historyTable) clearLow(thread ThreadID, entry uint32) {
	h.regs[h.slot(thread, entry)] &= h.valueMask &^ 1
}

func (h *historyTable) reset() {
	clear(h.regs)
}

func bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
