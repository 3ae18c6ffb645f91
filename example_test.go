// example_test.go: godoc examples for the pasbp predictor
//
// These examples appear in the generated documentation on pkg.go.dev
// and are executed as part of the test suite to ensure they remain valid.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp_test

import (
	"fmt"

	"github.com/agilira/pasbp"
)

// ExampleNewPredictor shows the basic predict/resolve loop.
func ExampleNewPredictor() {
	cfg := pasbp.DefaultConfig()
	cfg.HistoryRegisterBits = 4
	cfg.HistoryRowSelectBits = 4
	cfg.HistoryPolicy = pasbp.HistoryPolicyResolved

	pred, err := pasbp.NewPredictor(cfg)
	if err != nil {
		panic(err)
	}

	const pc = pasbp.Addr(0x401a2c)

	// A loop branch taken ten times in a row
	for i := 0; i < 10; i++ {
		_, tok := pred.Lookup(0, pc)
		if err := pred.Update(0, pc, true, &tok, false); err != nil {
			panic(err)
		}
	}

	taken, tok := pred.Lookup(0, pc)
	_ = pred.Squash(0, &tok)

	fmt.Println("predicted taken:", taken)
	fmt.Println("lookups:", pred.Stats().Lookups)
	// Output:
	// predicted taken: true
	// lookups: 11
}

// ExamplePredictor_Squash shows that a squash restores the history register.
func ExamplePredictor_Squash() {
	cfg := pasbp.DefaultConfig()
	cfg.AddressIndexBits = 4
	cfg.HistoryRegisterBits = 4
	cfg.HistoryRowSelectBits = 4
	pred := pasbp.MustNewPredictor(cfg)

	const pc = pasbp.Addr(0x20)
	pred.UncondBranch(0, pc)
	pred.UncondBranch(0, pc)
	fmt.Printf("before: %04b\n", pred.HistoryAt(0, pc))

	_, tok := pred.Lookup(0, pc)
	fmt.Printf("speculative: %04b\n", pred.HistoryAt(0, pc))

	if err := pred.Squash(0, &tok); err != nil {
		panic(err)
	}
	fmt.Printf("after squash: %04b\n", pred.HistoryAt(0, pc))
	// Output:
	// before: 0011
	// speculative: 0110
	// after squash: 0011
}

// ExamplePredictor_Update_tokenReuse shows that a token is single use.
func ExamplePredictor_Update_tokenReuse() {
	pred := pasbp.MustNewPredictor(pasbp.DefaultConfig())

	_, tok := pred.Lookup(0, 0x100)
	fmt.Println(pred.Update(0, 0x100, false, &tok, false))

	err := pred.Update(0, 0x100, false, &tok, false)
	fmt.Println(pasbp.GetErrorCode(err), pasbp.IsTokenError(err))
	// Output:
	// <nil>
	// PASBP_TOKEN_CONSUMED true
}

// ExampleConfig_Validate shows a rejected geometry.
func ExampleConfig_Validate() {
	cfg := pasbp.DefaultConfig()
	cfg.HistoryRowSelectBits = cfg.HistoryRegisterBits + 1

	err := cfg.Validate()
	fmt.Println(pasbp.GetErrorCode(err), pasbp.IsConfigError(err))
	// Output: PASBP_ROW_SELECT_EXCEEDS_HISTORY true
}
