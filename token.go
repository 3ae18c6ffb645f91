// token.go: speculative history snapshots handed out by Lookup
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

// Addr is an instruction address.
type Addr uint64

// ThreadID identifies a hardware thread, in [0, Config.ThreadCount).
type ThreadID int

// Token lifecycle states.
const (
	tokenEmpty    = 0 // zero value: never issued, carries no history
	tokenLive     = 1 // issued by Lookup, awaiting Update or Squash
	tokenConsumed = 2 // terminal call done
)

// HistoryToken is the snapshot Lookup takes before it speculatively shifts
// a history register. The caller owns it until exactly one of Update or
// Squash consumes it; both take a pointer and mark the token consumed so a
// second terminal call is reported instead of corrupting history.
//
// The zero value is the "no history" token: Valid reports false and every
// terminal call rejects it.
type HistoryToken struct {
	prior     uint64
	thread    ThreadID
	entry     uint32
	predicted bool
	state     uint8
}

// Valid reports whether the token was issued by Lookup and not yet consumed.
func (t *HistoryToken) Valid() bool {
	return t != nil && t.state == tokenLive
}

// Consumed reports whether a terminal call already used the token.
func (t *HistoryToken) Consumed() bool {
	return t != nil && t.state == tokenConsumed
}

// Thread returns the thread the token was issued for.
func (t HistoryToken) Thread() ThreadID {
	return t.thread
}

// EntryIndex returns the history register slot read at lookup.
func (t HistoryToken) EntryIndex() uint32 {
	return t.entry
}

// PriorValue returns the register value before the speculative shift.
func (t HistoryToken) PriorValue() uint64 {
	return t.prior
}

// Predicted returns the direction recorded for the branch. BTBUpdate may
// turn a taken prediction into not taken.
func (t HistoryToken) Predicted() bool {
	return t.predicted
}

// check validates a token against the calling thread. It never mutates.
func (t *HistoryToken) check(op string, thread ThreadID) error {
	switch {
	case t == nil || t.state == tokenEmpty:
		return NewErrInvalidToken(op, thread)
	case t.state == tokenConsumed:
		return NewErrTokenConsumed(op, thread, t.entry)
	case t.thread != thread:
		return NewErrTokenThreadMismatch(op, t.thread, thread)
	}
	return nil
}

func (t *HistoryToken) consume() {
	t.state = tokenConsumed
}
