// Package pasbp implements the decision core of a PAs two-level adaptive
// branch predictor for cycle-level CPU pipeline simulators.
//
// # Overview
//
// Given an instruction address and a hardware thread, the predictor guesses
// whether a conditional branch will be taken, and later learns the real
// outcome. Its state is:
//
//   - one table of 2^a history registers per thread, indexed by the low a
//     bits of the branch address; each register is a p-bit shift register of
//     recent outcomes for the branches that alias to it
//   - one grid of 2^k x 2^m saturating counters shared by all threads; the
//     row is the low k bits of the history register, the column the low m
//     bits of the address
//
// Every index is computed by masking with 2^n-1, so any address maps to a
// valid entry. Distinct addresses with equal low bits share state; this
// aliasing is inherent to the predictor class.
//
// # Protocol
//
// The fetch unit calls Lookup for every conditional branch it fetches.
// Lookup reads the counter, shifts the predicted bit into the history
// register and returns the prediction with a HistoryToken holding the
// register value before the shift. Exactly one terminal call follows:
//
//	taken, tok := pred.Lookup(tid, pc)
//
//	// branch resolved
//	err := pred.Update(tid, pc, actual, &tok, false)
//
//	// or: younger instructions flushed before resolution
//	err := pred.Squash(tid, &tok)
//
// Squash restores the register exactly. Update trains the counter; the
// counters never see speculative state. Passing the same token twice,
// passing a zero token, or passing a token to another thread returns a
// PASBP_TOKEN_* error and mutates nothing.
//
// Unconditional branches use UncondBranch, which needs no token. A branch
// predicted taken whose target misses in the branch-target buffer is
// reported with BTBUpdate before it resolves.
//
// # History Policy
//
// With HistoryPolicySpeculative (the default) Update trains the counter
// selected by the register as it is now and keeps the predicted bit in the
// register. With HistoryPolicyResolved Update trains the counter the
// prediction came from and replaces a wrong predicted bit with the actual
// outcome:
//
//	cfg := pasbp.DefaultConfig()
//	cfg.HistoryPolicy = pasbp.HistoryPolicyResolved
//
// # Configuration
//
// Geometry is validated, never clamped:
//
//	pred, err := pasbp.NewPredictor(pasbp.Config{
//	    AddressIndexBits:        10, // a
//	    HistoryRegisterBits:     12, // p
//	    HistoryRowSelectBits:    10, // k <= p
//	    AddressColumnSelectBits: 4,  // m
//	    CounterBits:             2,
//	    ThreadCount:             2,
//	})
//	if pasbp.IsConfigError(err) {
//	    log.Fatal(err)
//	}
//
// Debug tracing and the history policy can be changed at runtime, by hand
// or from a watched configuration file through HotConfig.
//
// # Observability
//
// Config.Logger receives construction, reset and protocol-violation events,
// and misprediction traces when Debug is on. Config.MetricsCollector
// receives one call per operation; the otel submodule provides an
// OpenTelemetry implementation. Stats returns counters and accuracy.
//
// # Concurrency
//
// The predictor is driven by one pipeline goroutine and does no locking on
// the prediction path. Stats, SetDebug and SetHistoryPolicy are safe to call
// from other goroutines.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package pasbp
