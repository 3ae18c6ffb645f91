// metrics_test.go: tests for MetricsCollector interface and implementations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"sync"
	"testing"
)

// TestNoOpMetricsCollector verifies that NoOpMetricsCollector does nothing
// and doesn't panic when called.
func TestNoOpMetricsCollector(t *testing.T) {
	collector := NoOpMetricsCollector{}

	collector.RecordLookup(true, 3)
	collector.RecordLookup(false, 0)
	collector.RecordResolve(true)
	collector.RecordResolve(false)
	collector.RecordSquash()
	collector.RecordUncondBranch()
	collector.RecordBTBCorrection()
}

// mockMetricsCollector is a test implementation that records calls
type mockMetricsCollector struct {
	mu sync.Mutex

	lookups        int
	predictedTaken int
	counterValues  []uint8
	correct        int
	mispredictions int
	squashes       int
	uncond         int
	btbCorrections int
}

func (m *mockMetricsCollector) RecordLookup(taken bool, counter uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if taken {
		m.predictedTaken++
	}
	m.counterValues = append(m.counterValues, counter)
}

func (m *mockMetricsCollector) RecordResolve(correct bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if correct {
		m.correct++
	} else {
		m.mispredictions++
	}
}

func (m *mockMetricsCollector) RecordSquash() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.squashes++
}

func (m *mockMetricsCollector) RecordUncondBranch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uncond++
}

func (m *mockMetricsCollector) RecordBTBCorrection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.btbCorrections++
}

// TestPredictor_MetricsIntegration verifies the predictor reports every
// operation to its collector and that the collector agrees with Stats.
func TestPredictor_MetricsIntegration(t *testing.T) {
	collector := &mockMetricsCollector{}
	cfg := smallConfig()
	cfg.MetricsCollector = collector
	p := newTestPredictor(t, cfg)

	p.grid.at(0, 1).value = 3

	// Taken prediction hit by a BTB miss, then resolved not taken
	_, tok := p.Lookup(0, 1)
	if err := p.BTBUpdate(0, 1, &tok); err != nil {
		t.Fatal(err)
	}
	if err := p.Update(0, 1, false, &tok, false); err != nil {
		t.Fatal(err)
	}

	// Not-taken prediction, resolved taken
	_, tok = p.Lookup(0, 2)
	if err := p.Update(0, 2, true, &tok, false); err != nil {
		t.Fatal(err)
	}

	// Squashed lookup, then an update flagged squashed on a new token
	_, tok = p.Lookup(0, 3)
	if err := p.Squash(0, &tok); err != nil {
		t.Fatal(err)
	}
	_, tok = p.Lookup(0, 3)
	if err := p.Update(0, 3, true, &tok, true); err != nil {
		t.Fatal(err)
	}

	p.UncondBranch(0, 0)

	// Rejected calls report nothing
	_ = p.Squash(0, &tok)

	if collector.lookups != 4 {
		t.Errorf("lookups = %d, want 4", collector.lookups)
	}
	if collector.predictedTaken != 1 {
		t.Errorf("predictedTaken = %d, want 1", collector.predictedTaken)
	}
	if collector.counterValues[0] != 3 {
		t.Errorf("first lookup counter = %d, want 3", collector.counterValues[0])
	}
	if collector.correct != 1 || collector.mispredictions != 1 {
		t.Errorf("correct/mispredictions = %d/%d, want 1/1", collector.correct, collector.mispredictions)
	}
	if collector.squashes != 1 {
		t.Errorf("squashes = %d, want 1", collector.squashes)
	}
	if collector.uncond != 1 {
		t.Errorf("uncond = %d, want 1", collector.uncond)
	}
	if collector.btbCorrections != 1 {
		t.Errorf("btbCorrections = %d, want 1", collector.btbCorrections)
	}

	s := p.Stats()
	if int(s.Lookups) != collector.lookups ||
		int(s.Correct) != collector.correct ||
		int(s.Mispredictions) != collector.mispredictions ||
		int(s.Squashes) != collector.squashes {
		t.Errorf("Stats %+v disagree with collector %+v", s, collector)
	}
}

func BenchmarkLookupUpdate_NoOpMetrics(b *testing.B) {
	p := newTestPredictor(b, DefaultConfig())
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		addr := Addr(i << 2)
		taken, tok := p.Lookup(0, addr)
		_ = p.Update(0, addr, !taken, &tok, false)
	}
}

func BenchmarkLookupUpdate_MockMetrics(b *testing.B) {
	cfg := DefaultConfig()
	cfg.MetricsCollector = &mockMetricsCollector{}
	p := newTestPredictor(b, cfg)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		addr := Addr(i << 2)
		taken, tok := p.Lookup(0, addr)
		_ = p.Update(0, addr, !taken, &tok, false)
	}
}
