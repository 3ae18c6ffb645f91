// config.go: configuration for pasbp
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"strings"

	"github.com/agilira/go-timecache"
)

// HistoryPolicy selects how Update treats the history bit that Lookup
// shifted in speculatively.
type HistoryPolicy int

const (
	// HistoryPolicySpeculative trains the counter selected by the current
	// register value and leaves the register as Lookup shifted it.
	// One shift per branch; the register follows the predicted path.
	HistoryPolicySpeculative HistoryPolicy = iota

	// HistoryPolicyResolved trains the counter the prediction was read from
	// (the pre-shift value) and, on a misprediction, rewrites the entry
	// to the pre-shift value with the actual outcome shifted in.
	HistoryPolicyResolved
)

// String returns the configuration-file spelling of the policy.
func (p HistoryPolicy) String() string {
	switch p {
	case HistoryPolicySpeculative:
		return "speculative"
	case HistoryPolicyResolved:
		return "resolved"
	}
	return "unknown"
}

// ParseHistoryPolicy parses "speculative" or "resolved" (case-insensitive).
func ParseHistoryPolicy(s string) (HistoryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "speculative":
		return HistoryPolicySpeculative, nil
	case "resolved":
		return HistoryPolicyResolved, nil
	}
	return 0, NewErrInvalidHistoryPolicy(s)
}

// Config holds configuration parameters for the predictor.
// Geometry fields are fixed at construction.
type Config struct {
	// AddressIndexBits (a) selects one of 2^a history registers per thread.
	// Must be in [1, MaxIndexBits].
	AddressIndexBits int

	// HistoryRegisterBits (p) is the width of each history register.
	// Must be in [1, MaxHistoryRegisterBits].
	HistoryRegisterBits int

	// HistoryRowSelectBits (k) is the number of low history bits that pick
	// a grid row. Must be in [1, MaxIndexBits] and <= HistoryRegisterBits.
	HistoryRowSelectBits int

	// AddressColumnSelectBits (m) is the number of low address bits that
	// pick a grid column. Must be in [1, MaxIndexBits].
	AddressColumnSelectBits int

	// CounterBits is the width of every grid counter. Must be in [1, 8].
	CounterBits int

	// ThreadCount is the number of hardware threads, each with its own
	// history table. Must be in [1, MaxThreadCount].
	ThreadCount int

	// HistoryPolicy selects the Update commit rule. Default: speculative.
	HistoryPolicy HistoryPolicy

	// Debug logs every resolved misprediction at Debug level.
	Debug bool

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used.
	Logger Logger

	// TimeProvider stamps construction and resolution times.
	// If nil, a go-timecache backed implementation is used.
	TimeProvider TimeProvider

	// MetricsCollector receives predictor events.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector
}

// Validate checks the geometry and fills in nil hooks.
//
// Unlike hooks, numeric fields are never defaulted: a zero, negative or
// out-of-range width is a configuration error, and so is k > p.
// NewPredictor calls Validate, so calling it manually is only useful to
// check a configuration before building.
func (c *Config) Validate() error {
	if c.AddressIndexBits < 1 || c.AddressIndexBits > MaxIndexBits {
		return NewErrInvalidAddressIndexBits(c.AddressIndexBits)
	}
	if c.HistoryRegisterBits < 1 || c.HistoryRegisterBits > MaxHistoryRegisterBits {
		return NewErrInvalidHistoryBits(c.HistoryRegisterBits)
	}
	if c.HistoryRowSelectBits < 1 || c.HistoryRowSelectBits > MaxIndexBits {
		return NewErrInvalidRowSelectBits(c.HistoryRowSelectBits)
	}
	if c.AddressColumnSelectBits < 1 || c.AddressColumnSelectBits > MaxIndexBits {
		return NewErrInvalidColumnSelectBits(c.AddressColumnSelectBits)
	}
	if c.CounterBits < 1 || c.CounterBits > MaxCounterBits {
		return NewErrInvalidCounterBits(c.CounterBits)
	}
	if c.ThreadCount < 1 || c.ThreadCount > MaxThreadCount {
		return NewErrInvalidThreadCount(c.ThreadCount)
	}
	if c.HistoryRowSelectBits > c.HistoryRegisterBits {
		return NewErrRowSelectExceedsHistory(c.HistoryRowSelectBits, c.HistoryRegisterBits)
	}
	if c.HistoryRowSelectBits+c.AddressColumnSelectBits > MaxGridBits {
		return NewErrGridTooLarge(c.HistoryRowSelectBits, c.AddressColumnSelectBits)
	}
	if c.HistoryPolicy != HistoryPolicySpeculative && c.HistoryPolicy != HistoryPolicyResolved {
		return NewErrInvalidHistoryPolicy(int(c.HistoryPolicy))
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// sameGeometry reports whether two configurations build identical tables.
func (c Config) sameGeometry(o Config) bool {
	return c.AddressIndexBits == o.AddressIndexBits &&
		c.HistoryRegisterBits == o.HistoryRegisterBits &&
		c.HistoryRowSelectBits == o.HistoryRowSelectBits &&
		c.AddressColumnSelectBits == o.AddressColumnSelectBits &&
		c.CounterBits == o.CounterBits &&
		c.ThreadCount == o.ThreadCount
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AddressIndexBits:        DefaultAddressIndexBits,
		HistoryRegisterBits:     DefaultHistoryRegisterBits,
		HistoryRowSelectBits:    DefaultHistoryRowSelectBits,
		AddressColumnSelectBits: DefaultAddressColumnSelectBits,
		CounterBits:             DefaultCounterBits,
		ThreadCount:             DefaultThreadCount,
		HistoryPolicy:           HistoryPolicySpeculative,
		Logger:                  NoOpLogger{},
		TimeProvider:            &systemTimeProvider{},
		MetricsCollector:        NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
