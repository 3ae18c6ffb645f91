// Package pasbp provides a per-address, shared-pattern (PAs) two-level
// adaptive branch predictor for cycle-level pipeline simulators.
//
// The first level is a per-thread table of branch history registers indexed
// by the low bits of the branch address. The second level is a grid of
// saturating counters shared by all threads: the row comes from the recent
// history of the branch, the column from the low bits of its address.
//
// Example usage:
//
//	pred, err := pasbp.NewPredictor(pasbp.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	taken, tok := pred.Lookup(0, pc)
//	// ... later, when the branch resolves
//	if err := pred.Update(0, pc, actual, &tok, false); err != nil {
//		log.Fatal(err)
//	}
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package pasbp

const (
	// Version of the pasbp predictor library
	Version = "v0.1.0-dev"

	// DefaultAddressIndexBits selects 1024 history registers per thread
	DefaultAddressIndexBits = 10

	// DefaultHistoryRegisterBits is the width of each history register
	DefaultHistoryRegisterBits = 10

	// DefaultHistoryRowSelectBits selects 1024 grid rows
	DefaultHistoryRowSelectBits = 10

	// DefaultAddressColumnSelectBits selects 16 grid columns
	DefaultAddressColumnSelectBits = 4

	// DefaultCounterBits is the classic 2-bit saturating counter
	DefaultCounterBits = 2

	// DefaultThreadCount is a single hardware thread
	DefaultThreadCount = 1
)

// Resource limits enforced by Config.Validate.
const (
	// MaxIndexBits bounds a, k and m individually.
	MaxIndexBits = 24

	// MaxGridBits bounds k+m (2^28 counters).
	MaxGridBits = 28

	// MaxHistoryRegisterBits is the width of the backing uint64.
	MaxHistoryRegisterBits = 64

	// MaxCounterBits is the width of the backing uint8.
	MaxCounterBits = 8

	// MaxThreadCount bounds the number of per-thread history tables.
	MaxThreadCount = 256
)

// lowMask returns (2^n)-1. Go defines x<<64 == 0 for uint64, so n == 64
// yields all ones.
func lowMask(n int) uint64 {
	return (uint64(1) << uint(n)) - 1 // #nosec G115 - n is validated to [1, 64]
}
