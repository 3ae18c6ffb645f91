// counter.go: n-bit saturating counter
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

// SaturatingCounter is an unsigned counter of 1 to 8 bits whose increment and
// decrement clamp at the range bounds instead of wrapping.
//
// The counter predicts taken once it reaches the upper half of its range,
// i.e. value >= 2^(width-1). For the classic 2-bit counter the states are:
// 0 strongly not taken, 1 weakly not taken, 2 weakly taken, 3 strongly taken.
type SaturatingCounter struct {
	value uint8
	max   uint8 // 2^width - 1
}

// NewSaturatingCounter creates a zeroed counter of the given width.
// Returns an error if width is outside [1, MaxCounterBits].
func NewSaturatingCounter(width int) (SaturatingCounter, error) {
	if width < 1 || width > MaxCounterBits {
		return SaturatingCounter{}, NewErrInvalidCounterBits(width)
	}
	return newCounter(width), nil
}

// newCounter skips validation; width comes from a validated Config.
func newCounter(width int) SaturatingCounter {
	return SaturatingCounter{max: uint8(lowMask(width))} // #nosec G115 - width <= 8
}

// Increment adds one unless the counter is saturated.
func (c *SaturatingCounter) Increment() {
	if c.value < c.max {
		c.value++
	}
}

// Decrement subtracts one unless the counter is zero.
func (c *SaturatingCounter) Decrement() {
	if c.value > 0 {
		c.value--
	}
}

// Read returns the current value, always in [0, Max()].
func (c *SaturatingCounter) Read() uint8 {
	return c.value
}

// IsTaken reports whether the counter sits in the upper half of its range.
func (c *SaturatingCounter) IsTaken() bool {
	return c.value >= c.Threshold()
}

// Threshold returns 2^(width-1), the smallest taken value.
func (c *SaturatingCounter) Threshold() uint8 {
	return c.max>>1 + 1
}

// Max returns 2^width - 1.
func (c *SaturatingCounter) Max() uint8 {
	return c.max
}

// Width returns the configured counter width in bits.
func (c *SaturatingCounter) Width() int {
	w := 0
	for m := c.max; m != 0; m >>= 1 {
		w++
	}
	return w
}

// reset clears the value and keeps the width.
func (c *SaturatingCounter) reset() {
	c.value = 0
}
