// concurrency_test.go: observers running alongside the pipeline goroutine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"sync"
	"testing"
)

// TestConcurrency_ObserversDuringPipeline drives the predictor from one
// goroutine while others read Stats and flip the runtime switches.
// Run with -race.
func TestConcurrency_ObserversDuringPipeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ThreadCount = 2
	p := newTestPredictor(t, cfg)

	const operations = 20000
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < operations; i++ {
			thread := ThreadID(i & 1)
			addr := Addr(i * 4)
			taken, tok := p.Lookup(thread, addr)
			if i%5 == 0 {
				_ = p.Squash(thread, &tok)
				continue
			}
			_ = p.Update(thread, addr, !taken || i%3 == 0, &tok, false)
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var last uint64
			for {
				select {
				case <-done:
					return
				default:
				}
				s := p.Stats()
				if s.Lookups < last {
					t.Errorf("Lookups went backwards: %d -> %d", last, s.Lookups)
					return
				}
				last = s.Lookups
				if id == 0 {
					p.SetDebug(s.Lookups%2 == 0)
				}
				if id == 1 {
					_ = p.SetHistoryPolicy(HistoryPolicy(s.Lookups % 2))
				}
			}
		}(i)
	}

	wg.Wait()

	s := p.Stats()
	if s.Lookups != operations {
		t.Errorf("Lookups = %d, want %d", s.Lookups, operations)
	}
	if s.Squashes+s.Updates != operations {
		t.Errorf("Squashes + Updates = %d, want %d", s.Squashes+s.Updates, operations)
	}
}
