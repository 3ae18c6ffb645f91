// predictor.go: PAs predictor engine - lookup, update, squash and recovery
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"sync/atomic"
)

// Predictor is a per-address, shared-pattern two-level adaptive branch
// predictor. It owns one history table per thread and a single counter grid
// shared by every thread.
//
// All index arithmetic masks with 2^n-1, so every address and every history
// value maps to a valid entry; aliasing between addresses that share low
// bits is inherent and not detected.
//
// A Predictor is driven by one pipeline goroutine. Only Stats, SetDebug and
// SetHistoryPolicy may be called concurrently with the operations.
type Predictor struct {
	// Tables (shape immutable after creation)
	history historyTable
	grid    counterGrid
	config  Config

	// Runtime switches, hot-reloadable
	policy atomic.Int32
	debug  atomic.Bool

	logger       Logger
	metrics      MetricsCollector
	timeProvider TimeProvider

	// Statistics; the atomic types keep 64-bit alignment on 32-bit platforms
	lookups             atomic.Uint64
	predictedTaken      atomic.Uint64
	updates             atomic.Uint64
	correct             atomic.Uint64
	mispredictions      atomic.Uint64
	squashes            atomic.Uint64
	resolvedAfterSquash atomic.Uint64
	uncondBranches      atomic.Uint64
	btbCorrections      atomic.Uint64
	startedAt           atomic.Int64
	lastResolve         atomic.Int64
}

// Compile-time interface check
var _ BranchPredictor = (*Predictor)(nil)

// NewPredictor validates cfg and builds a predictor with all history
// registers and counters zeroed. Configuration errors are returned as is;
// nothing is clamped.
func NewPredictor(cfg Config) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Predictor{
		history:      newHistoryTable(cfg.ThreadCount, cfg.AddressIndexBits, cfg.HistoryRegisterBits),
		grid:         newCounterGrid(cfg.HistoryRowSelectBits, cfg.AddressColumnSelectBits, cfg.CounterBits),
		config:       cfg,
		logger:       cfg.Logger,
		metrics:      cfg.MetricsCollector,
		timeProvider: cfg.TimeProvider,
	}
	p.startedAt.Store(cfg.TimeProvider.Now())
	p.policy.Store(int32(cfg.HistoryPolicy)) // #nosec G115 - validated enum
	p.debug.Store(cfg.Debug)

	p.logger.Info("predictor created",
		"threads", cfg.ThreadCount,
		"history_entries", 1<<cfg.AddressIndexBits,
		"history_bits", cfg.HistoryRegisterBits,
		"rows", p.grid.rows(),
		"columns", p.grid.columns(),
		"counter_bits", cfg.CounterBits,
		"policy", cfg.HistoryPolicy.String())

	return p, nil
}

// MustNewPredictor is like NewPredictor but panics on configuration errors.
func MustNewPredictor(cfg Config) *Predictor {
	p, err := NewPredictor(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup predicts the conditional branch at addr for thread.
//
// The prediction is read from the counter at row = prior history & (2^k-1),
// column = addr & (2^m-1). The history register is then shifted with the
// predicted bit; the counters are not touched until the branch resolves.
//
// Lookup panics with a PASBP_INVALID_THREAD error if thread is out of range.
func (p *Predictor) Lookup(thread ThreadID, addr Addr) (bool, HistoryToken) {
	p.mustThread("lookup", thread)

	entry := p.history.entryIndex(addr)
	prior := p.history.read(thread, entry)
	ctr := p.grid.cellAt(prior, addr)
	taken := ctr.IsTaken()

	p.history.shiftIn(thread, entry, taken)

	p.lookups.Add(1)
	if taken {
		p.predictedTaken.Add(1)
	}
	p.metrics.RecordLookup(taken, ctr.Read())

	return taken, HistoryToken{
		prior:     prior,
		thread:    thread,
		entry:     entry,
		predicted: taken,
		state:     tokenLive,
	}
}

// Update resolves the branch tok was issued for and consumes tok.
//
// If squashed is true the branch's path was abandoned before resolution:
// the history entry is rebuilt as (prior<<1 | taken) and the counters are
// left alone. Otherwise the selected counter moves toward taken; which row
// is trained, and whether a wrong speculative bit is corrected, depends on
// the HistoryPolicy.
//
// A token that is empty, already consumed or issued for another thread is
// rejected with an error and nothing is mutated.
func (p *Predictor) Update(thread ThreadID, addr Addr, taken bool, tok *HistoryToken, squashed bool) error {
	if err := p.checkToken("update", thread, tok); err != nil {
		return err
	}

	if squashed {
		p.history.write(thread, tok.entry, tok.prior<<1|bit(taken))
		tok.consume()
		p.resolvedAfterSquash.Add(1)
		p.lastResolve.Store(p.timeProvider.Now())
		return nil
	}

	policy := HistoryPolicy(p.policy.Load())

	var hist uint64
	if policy == HistoryPolicyResolved {
		hist = tok.prior
	} else {
		hist = p.history.read(thread, p.history.entryIndex(addr))
	}

	ctr := p.grid.cellAt(hist, addr)
	if taken {
		ctr.Increment()
	} else {
		ctr.Decrement()
	}

	correct := tok.predicted == taken
	if !correct && policy == HistoryPolicyResolved {
		p.history.write(thread, tok.entry, tok.prior<<1|bit(taken))
	}
	tok.consume()

	p.updates.Add(1)
	p.lastResolve.Store(p.timeProvider.Now())
	if correct {
		p.correct.Add(1)
	} else {
		p.mispredictions.Add(1)
		if p.debug.Load() {
			p.logger.Debug("branch mispredicted",
				"thread", int(thread),
				"addr", uint64(addr),
				"entry", tok.entry,
				"prior_history", tok.prior,
				"predicted", tok.predicted,
				"counter", ctr.Read())
		}
	}
	p.metrics.RecordResolve(correct)

	return nil
}

// Squash restores the history entry to its value before Lookup and
// consumes tok. The counters are not touched.
func (p *Predictor) Squash(thread ThreadID, tok *HistoryToken) error {
	if err := p.checkToken("squash", thread, tok); err != nil {
		return err
	}

	p.history.write(thread, tok.entry, tok.prior)
	tok.consume()

	p.squashes.Add(1)
	p.metrics.RecordSquash()
	return nil
}

// UncondBranch records an unconditional branch at addr: the counter the
// current history selects is incremented and a taken bit is shifted into
// the history register.
//
// UncondBranch panics with a PASBP_INVALID_THREAD error if thread is out of range.
func (p *Predictor) UncondBranch(thread ThreadID, addr Addr) {
	p.mustThread("uncond_branch", thread)

	entry := p.history.entryIndex(addr)
	prior := p.history.read(thread, entry)
	p.grid.cellAt(prior, addr).Increment()
	p.history.shiftIn(thread, entry, true)

	p.uncondBranches.Add(1)
	p.metrics.RecordUncondBranch()
}

// BTBUpdate handles a target buffer miss on a branch predicted taken: fetch
// falls through, so the speculative history bit becomes not taken and so
// does the prediction recorded in tok. tok stays live.
//
// BTBUpdate clears the current low bit of the entry's register. Call it
// before any younger Lookup on the same entry; once a younger branch has
// shifted in, the low bit is that branch's and is the one cleared.
func (p *Predictor) BTBUpdate(thread ThreadID, addr Addr, tok *HistoryToken) error {
	if err := p.checkToken("btb_update", thread, tok); err != nil {
		return err
	}
	if !tok.predicted {
		return nil
	}

	p.history.clearLow(thread, tok.entry)
	tok.predicted = false

	p.btbCorrections.Add(1)
	p.metrics.RecordBTBCorrection()
	return nil
}

// HistoryAt returns the current history register value for the entry addr
// selects on thread.
func (p *Predictor) HistoryAt(thread ThreadID, addr Addr) uint64 {
	p.mustThread("history_at", thread)
	return p.history.read(thread, p.history.entryIndex(addr))
}

// CounterAt returns the value of the grid counter at row, column.
// Both coordinates are masked to the grid shape.
func (p *Predictor) CounterAt(row, column uint64) uint8 {
	return p.grid.at(row&p.grid.rowMask, column&p.grid.colMask).Read()
}

// CounterHistogram returns, for each possible counter value, how many grid
// cells currently hold it.
func (p *Predictor) CounterHistogram() []uint64 {
	return p.grid.histogram()
}

// Config returns the configuration the predictor was built with, including
// the current runtime switches.
func (p *Predictor) Config() Config {
	c := p.config
	c.HistoryPolicy = p.HistoryPolicy()
	c.Debug = p.debug.Load()
	return c
}

// HistoryPolicy returns the active commit policy.
func (p *Predictor) HistoryPolicy() HistoryPolicy {
	return HistoryPolicy(p.policy.Load())
}

// SetHistoryPolicy switches the commit policy for subsequent updates.
func (p *Predictor) SetHistoryPolicy(policy HistoryPolicy) error {
	if policy != HistoryPolicySpeculative && policy != HistoryPolicyResolved {
		return NewErrInvalidHistoryPolicy(int(policy))
	}
	p.policy.Store(int32(policy)) // #nosec G115 - validated enum
	return nil
}

// SetDebug toggles misprediction tracing.
func (p *Predictor) SetDebug(enabled bool) {
	p.debug.Store(enabled)
}

// Stats returns predictor statistics.
func (p *Predictor) Stats() Stats {
	return Stats{
		Lookups:             p.lookups.Load(),
		PredictedTaken:      p.predictedTaken.Load(),
		Updates:             p.updates.Load(),
		Correct:             p.correct.Load(),
		Mispredictions:      p.mispredictions.Load(),
		Squashes:            p.squashes.Load(),
		ResolvedAfterSquash: p.resolvedAfterSquash.Load(),
		UncondBranches:      p.uncondBranches.Load(),
		BTBCorrections:      p.btbCorrections.Load(),
		Threads:             p.config.ThreadCount,
		HistoryEntries:      1 << p.config.AddressIndexBits,
		Rows:                p.grid.rows(),
		Columns:             p.grid.columns(),
		UptimeNs:            p.timeProvider.Now() - p.startedAt.Load(),
		LastResolveNs:       p.lastResolve.Load(),
	}
}

// Reset zeroes every history register, every counter and the statistics.
// Outstanding tokens must not be used after Reset.
func (p *Predictor) Reset() {
	p.history.reset()
	p.grid.reset()

	p.lookups.Store(0)
	p.predictedTaken.Store(0)
	p.updates.Store(0)
	p.correct.Store(0)
	p.mispredictions.Store(0)
	p.squashes.Store(0)
	p.resolvedAfterSquash.Store(0)
	p.uncondBranches.Store(0)
	p.btbCorrections.Store(0)
	p.startedAt.Store(p.timeProvider.Now())
	p.lastResolve.Store(0)

	p.logger.Info("predictor reset")
}

func (p *Predictor) mustThread(op string, thread ThreadID) {
	if thread < 0 || int(thread) >= p.config.ThreadCount {
		panic(NewErrInvalidThread(op, thread, p.config.ThreadCount))
	}
}

func (p *Predictor) checkToken(op string, thread ThreadID, tok *HistoryToken) error {
	var err error
	if thread < 0 || int(thread) >= p.config.ThreadCount {
		err = NewErrInvalidThread(op, thread, p.config.ThreadCount)
	} else {
		err = tok.check(op, thread)
	}
	if err != nil {
		p.logger.Error("history token protocol violation",
			"operation", op,
			"thread", int(thread),
			"code", string(GetErrorCode(err)))
	}
	return err
}
