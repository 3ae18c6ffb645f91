// errors_test.go: tests and benchmarks for error handling in pasbp
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/agilira/go-errors"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		errFunc      func() error
		expectedCode errors.ErrorCode
		configError  bool
		tokenError   bool
	}{
		{
			name:         "InvalidAddressIndexBits",
			errFunc:      func() error { return NewErrInvalidAddressIndexBits(0) },
			expectedCode: ErrCodeInvalidAddressIndexBits,
			configError:  true,
		},
		{
			name:         "InvalidHistoryBits",
			errFunc:      func() error { return NewErrInvalidHistoryBits(65) },
			expectedCode: ErrCodeInvalidHistoryBits,
			configError:  true,
		},
		{
			name:         "InvalidRowSelectBits",
			errFunc:      func() error { return NewErrInvalidRowSelectBits(25) },
			expectedCode: ErrCodeInvalidRowSelectBits,
			configError:  true,
		},
		{
			name:         "InvalidColumnSelectBits",
			errFunc:      func() error { return NewErrInvalidColumnSelectBits(-1) },
			expectedCode: ErrCodeInvalidColumnSelectBits,
			configError:  true,
		},
		{
			name:         "InvalidCounterBits",
			errFunc:      func() error { return NewErrInvalidCounterBits(9) },
			expectedCode: ErrCodeInvalidCounterBits,
			configError:  true,
		},
		{
			name:         "InvalidThreadCount",
			errFunc:      func() error { return NewErrInvalidThreadCount(0) },
			expectedCode: ErrCodeInvalidThreadCount,
			configError:  true,
		},
		{
			name:         "RowSelectExceedsHistory",
			errFunc:      func() error { return NewErrRowSelectExceedsHistory(12, 10) },
			expectedCode: ErrCodeRowSelectExceedsHistory,
			configError:  true,
		},
		{
			name:         "GridTooLarge",
			errFunc:      func() error { return NewErrGridTooLarge(20, 10) },
			expectedCode: ErrCodeGridTooLarge,
			configError:  true,
		},
		{
			name:         "InvalidHistoryPolicy",
			errFunc:      func() error { return NewErrInvalidHistoryPolicy("eager") },
			expectedCode: ErrCodeInvalidHistoryPolicy,
			configError:  true,
		},
		{
			name:         "InvalidConfigKey",
			errFunc:      func() error { return NewErrInvalidConfigKey("counter_bits", "two") },
			expectedCode: ErrCodeInvalidConfig,
			configError:  true,
		},
		{
			name:         "InvalidThread",
			errFunc:      func() error { return NewErrInvalidThread("lookup", 4, 2) },
			expectedCode: ErrCodeInvalidThread,
		},
		{
			name:         "InvalidToken",
			errFunc:      func() error { return NewErrInvalidToken("update", 0) },
			expectedCode: ErrCodeInvalidToken,
			tokenError:   true,
		},
		{
			name:         "TokenConsumed",
			errFunc:      func() error { return NewErrTokenConsumed("squash", 1, 7) },
			expectedCode: ErrCodeTokenConsumed,
			tokenError:   true,
		},
		{
			name:         "TokenThreadMismatch",
			errFunc:      func() error { return NewErrTokenThreadMismatch("update", 0, 1) },
			expectedCode: ErrCodeTokenThreadMismatch,
			tokenError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.errFunc()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("expected code %s, got %s", tt.expectedCode, GetErrorCode(err))
			}
			if IsConfigError(err) != tt.configError {
				t.Errorf("IsConfigError = %v, want %v", IsConfigError(err), tt.configError)
			}
			if IsTokenError(err) != tt.tokenError {
				t.Errorf("IsTokenError = %v, want %v", IsTokenError(err), tt.tokenError)
			}
			if IsRetryable(err) {
				t.Error("predictor errors are never retryable")
			}
			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := NewErrInvalidCounterBits(0)
	err := NewErrInvalidConfig(cause)

	if GetErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("outer code = %s, want %s", GetErrorCode(err), ErrCodeInvalidConfig)
	}
	if !IsConfigError(err) {
		t.Error("wrapped error should be a config error")
	}
	if !goerrors.Is(err, cause) && goerrors.Unwrap(err) == nil {
		t.Error("wrapped error should expose its cause")
	}
}

func TestErrorContext(t *testing.T) {
	tests := []struct {
		name string
		err  error
		key  string
		want interface{}
	}{
		{"provided bits", NewErrInvalidHistoryBits(70), "provided_bits", 70},
		{"valid range", NewErrInvalidCounterBits(0), "valid_range", "1-8"},
		{"thread count", NewErrInvalidThread("lookup", 3, 2), "thread_count", 2},
		{"operation", NewErrInvalidToken("squash", 0), "operation", "squash"},
		{"entry", NewErrTokenConsumed("update", 0, 9), "entry_index", uint32(9)},
		{"issued thread", NewErrTokenThreadMismatch("update", 1, 0), "issued_thread", 1},
		{"grid maximum", NewErrGridTooLarge(20, 10), "maximum_total", MaxGridBits},
		{"config key", NewErrInvalidConfigKey("debug", 3), "key", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := GetErrorContext(tt.err)
			if ctx == nil {
				t.Fatal("expected error context")
			}
			if ctx[tt.key] != tt.want {
				t.Errorf("context[%q] = %v (%T), want %v (%T)", tt.key, ctx[tt.key], ctx[tt.key], tt.want, tt.want)
			}
		})
	}
}

// The policy reaches the error both as parsed text and as a raw enum value.
func TestInvalidHistoryPolicyContext(t *testing.T) {
	tests := []struct {
		name string
		err  func() error
		want interface{}
	}{
		{"parsed string", func() error {
			_, err := ParseHistoryPolicy("eager")
			return err
		}, "eager"},
		{"config enum", func() error {
			cfg := DefaultConfig()
			cfg.HistoryPolicy = HistoryPolicy(7)
			return cfg.Validate()
		}, 7},
		{"runtime switch", func() error {
			p := MustNewPredictor(DefaultConfig())
			return p.SetHistoryPolicy(HistoryPolicy(-1))
		}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err()
			if GetErrorCode(err) != ErrCodeInvalidHistoryPolicy {
				t.Fatalf("code = %s, want %s", GetErrorCode(err), ErrCodeInvalidHistoryPolicy)
			}
			if !IsConfigError(err) {
				t.Error("expected a config error")
			}
			ctx := GetErrorContext(err)
			if ctx["provided_policy"] != tt.want {
				t.Errorf("provided_policy = %v (%T), want %v (%T)", ctx["provided_policy"], ctx["provided_policy"], tt.want, tt.want)
			}
			if ctx["valid_values"] != "speculative, resolved" {
				t.Errorf("valid_values = %v", ctx["valid_values"])
			}
		})
	}
}

func TestErrorJSONSerialization(t *testing.T) {
	err := NewErrTokenThreadMismatch("squash", 2, 3)

	var pErr *errors.Error
	if !goerrors.As(err, &pErr) {
		t.Fatal("expected *errors.Error type")
	}

	data, jsonErr := json.Marshal(pErr)
	if jsonErr != nil {
		t.Fatalf("JSON marshal failed: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON unmarshal failed: %v", err)
	}

	if decoded["code"] != string(ErrCodeTokenThreadMismatch) {
		t.Errorf("expected code %q in JSON, got %v", ErrCodeTokenThreadMismatch, decoded["code"])
	}
	ctx, ok := decoded["context"].(map[string]interface{})
	if !ok {
		t.Fatal("expected context in JSON")
	}
	if ctx["used_thread"] != float64(3) {
		t.Errorf("expected used_thread=3 in context, got %v", ctx["used_thread"])
	}
}

func TestErrorSeverity(t *testing.T) {
	var pErr *errors.Error

	for _, err := range []error{
		NewErrInvalidThread("lookup", 9, 1),
		NewErrInvalidToken("update", 0),
		NewErrTokenConsumed("update", 0, 0),
		NewErrTokenThreadMismatch("squash", 0, 1),
	} {
		if !goerrors.As(err, &pErr) {
			t.Fatalf("%v is not an *errors.Error", err)
		}
		if pErr.Severity != "critical" {
			t.Errorf("%s severity = %s, want critical", pErr.Code, pErr.Severity)
		}
	}
}

func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(nil) != "" {
		t.Error("nil error should have empty code")
	}
	if GetErrorCode(fmt.Errorf("plain")) != "" {
		t.Error("plain error should have empty code")
	}
	if GetErrorContext(nil) != nil || GetErrorContext(fmt.Errorf("plain")) != nil {
		t.Error("errors without context should return nil")
	}
	if IsConfigError(nil) || IsTokenError(nil) || IsInvalidThread(nil) || IsRetryable(nil) {
		t.Error("nil error matches no category")
	}
}

func BenchmarkErrorCreation(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NewErrTokenConsumed("update", 0, uint32(i))
	}
}

func BenchmarkErrorChecking(b *testing.B) {
	err := NewErrTokenConsumed("update", 0, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IsTokenError(err)
	}
}
