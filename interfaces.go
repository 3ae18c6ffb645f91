// interfaces.go: public interfaces for pasbp
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

// BranchPredictor is the direction-prediction contract between a fetch unit
// and a predictor. A hybrid (tournament/choice) predictor would implement it
// by composing several BranchPredictor values behind one token.
//
// Implementations are driven by a single pipeline goroutine and are not
// safe for concurrent mutation. Stats may be read from another goroutine.
type BranchPredictor interface {
	// Lookup predicts the direction of the conditional branch at addr and
	// speculatively records the prediction in the thread's history.
	// The returned token must be passed to exactly one of Update or Squash.
	Lookup(thread ThreadID, addr Addr) (taken bool, tok HistoryToken)

	// Update resolves a branch. squashed reports that the branch's path was
	// already abandoned; history is then rebuilt from the token and the
	// counters are left untouched. Consumes tok.
	Update(thread ThreadID, addr Addr, taken bool, tok *HistoryToken, squashed bool) error

	// Squash rolls the history register back to its pre-lookup value.
	// Consumes tok.
	Squash(thread ThreadID, tok *HistoryToken) error

	// UncondBranch records an always-taken branch. No token is produced.
	UncondBranch(thread ThreadID, addr Addr)

	// BTBUpdate records that the target buffer missed on a branch predicted
	// taken, so fetch fell through. Does not consume tok.
	BTBUpdate(thread ThreadID, addr Addr, tok *HistoryToken) error

	// Stats returns a snapshot of predictor statistics.
	Stats() Stats

	// Reset clears all learned state and statistics.
	Reset()
}

// Stats provides statistics about predictor behavior.
type Stats struct {
	// Lookups is the number of conditional branch predictions
	Lookups uint64

	// PredictedTaken is the number of lookups that predicted taken
	PredictedTaken uint64

	// Updates is the number of resolved branches that trained the counters
	Updates uint64

	// Correct is the number of resolved branches whose prediction matched
	Correct uint64

	// Mispredictions is the number of resolved branches whose prediction missed
	Mispredictions uint64

	// Squashes is the number of rolled back lookups
	Squashes uint64

	// ResolvedAfterSquash is the number of updates flagged as squashed
	ResolvedAfterSquash uint64

	// UncondBranches is the number of unconditional branches recorded
	UncondBranches uint64

	// BTBCorrections is the number of BTBUpdate calls
	BTBCorrections uint64

	// Threads, HistoryEntries, Rows and Columns describe the geometry
	Threads        int
	HistoryEntries int
	Rows           int
	Columns        int

	// UptimeNs is the time since construction or the last Reset
	UptimeNs int64

	// LastResolveNs is the TimeProvider timestamp of the most recent
	// Update, or 0 if nothing has resolved since construction or Reset
	LastResolveNs int64
}

// Accuracy returns the share of resolved branches predicted correctly as a
// percentage (0-100). Returns 0 if nothing has been resolved.
func (s Stats) Accuracy() float64 {
	total := s.Correct + s.Mispredictions
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total) * 100
}

// MispredictionRate returns the share of resolved branches mispredicted as a
// percentage (0-100).
func (s Stats) MispredictionRate() float64 {
	total := s.Correct + s.Mispredictions
	if total == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(total) * 100
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector receives predictor events. Implementations can forward
// them to Prometheus, OpenTelemetry or any other backend.
//
// All methods are called on the prediction hot path and must be
// allocation-free.
type MetricsCollector interface {
	// RecordLookup records a prediction and the counter value it was read from.
	RecordLookup(taken bool, counter uint8)

	// RecordResolve records a resolved branch and whether it was predicted correctly.
	RecordResolve(correct bool)

	// RecordSquash records a rolled back lookup.
	RecordSquash()

	// RecordUncondBranch records an unconditional branch.
	RecordUncondBranch()

	// RecordBTBCorrection records a taken prediction turned into a fall-through.
	RecordBTBCorrection()
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// Used as default to avoid nil checks.
type NoOpMetricsCollector struct{}

// RecordLookup does nothing.
func (NoOpMetricsCollector) RecordLookup(taken bool, counter uint8) {}

// RecordResolve does nothing.
func (NoOpMetricsCollector) RecordResolve(correct bool) {}

// RecordSquash does nothing.
func (NoOpMetricsCollector) RecordSquash() {}

// RecordUncondBranch does nothing.
func (NoOpMetricsCollector) RecordUncondBranch() {}

// RecordBTBCorrection does nothing.
func (NoOpMetricsCollector) RecordBTBCorrection() {}
