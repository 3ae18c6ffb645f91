// errors.go: structured errors for predictor construction and the token protocol
//
// This file provides structured error types using the go-errors library,
// giving every configuration failure and protocol violation a stable error
// code and a context map describing the offending values.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package pasbp

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for pasbp
const (
	// Configuration errors
	ErrCodeInvalidConfig           errors.ErrorCode = "PASBP_INVALID_CONFIG"
	ErrCodeInvalidAddressIndexBits errors.ErrorCode = "PASBP_INVALID_ADDRESS_INDEX_BITS"
	ErrCodeInvalidHistoryBits      errors.ErrorCode = "PASBP_INVALID_HISTORY_BITS"
	ErrCodeInvalidRowSelectBits    errors.ErrorCode = "PASBP_INVALID_ROW_SELECT_BITS"
	ErrCodeInvalidColumnSelectBits errors.ErrorCode = "PASBP_INVALID_COLUMN_SELECT_BITS"
	ErrCodeInvalidCounterBits      errors.ErrorCode = "PASBP_INVALID_COUNTER_BITS"
	ErrCodeInvalidThreadCount      errors.ErrorCode = "PASBP_INVALID_THREAD_COUNT"
	ErrCodeRowSelectExceedsHistory errors.ErrorCode = "PASBP_ROW_SELECT_EXCEEDS_HISTORY"
	ErrCodeGridTooLarge            errors.ErrorCode = "PASBP_GRID_TOO_LARGE"
	ErrCodeInvalidHistoryPolicy    errors.ErrorCode = "PASBP_INVALID_HISTORY_POLICY"

	// Protocol errors
	ErrCodeInvalidThread       errors.ErrorCode = "PASBP_INVALID_THREAD"
	ErrCodeInvalidToken        errors.ErrorCode = "PASBP_INVALID_TOKEN"
	ErrCodeTokenConsumed       errors.ErrorCode = "PASBP_TOKEN_CONSUMED"
	ErrCodeTokenThreadMismatch errors.ErrorCode = "PASBP_TOKEN_THREAD_MISMATCH"
)

// Common error messages
const (
	msgInvalidConfig           = "invalid predictor configuration"
	msgInvalidAddressIndexBits = "invalid address index bits: must be between 1 and 24"
	msgInvalidHistoryBits      = "invalid history register bits: must be between 1 and 64"
	msgInvalidRowSelectBits    = "invalid history row select bits: must be between 1 and 24"
	msgInvalidColumnSelectBits = "invalid address column select bits: must be between 1 and 24"
	msgInvalidCounterBits      = "invalid counter bits: must be between 1 and 8"
	msgInvalidThreadCount      = "invalid thread count: must be between 1 and 256"
	msgRowSelectExceedsHistory = "row select bits exceed history register bits"
	msgGridTooLarge            = "counter grid too large: row and column select bits exceed 28"
	msgInvalidHistoryPolicy    = "unknown history policy"
	msgInvalidThread           = "thread id out of range"
	msgInvalidToken            = "history token was never issued by lookup"
	msgTokenConsumed           = "history token already consumed"
	msgTokenThreadMismatch     = "history token issued for a different thread"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidConfig wraps a field-level configuration error
func NewErrInvalidConfig(cause error) error {
	return errors.Wrap(cause, ErrCodeInvalidConfig, msgInvalidConfig)
}

// NewErrInvalidConfigKey creates an error for a malformed configuration file key
func NewErrInvalidConfigKey(key string, value interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidConfig, msgInvalidConfig, map[string]interface{}{
		"key":            key,
		"provided_value": value,
	})
}

// NewErrInvalidAddressIndexBits creates an error for an invalid a
func NewErrInvalidAddressIndexBits(bits int) error {
	return errors.NewWithContext(ErrCodeInvalidAddressIndexBits, msgInvalidAddressIndexBits, map[string]interface{}{
		"provided_bits": bits,
		"valid_range":   "1-24",
	})
}

// NewErrInvalidHistoryBits creates an error for an invalid p
func NewErrInvalidHistoryBits(bits int) error {
	return errors.NewWithContext(ErrCodeInvalidHistoryBits, msgInvalidHistoryBits, map[string]interface{}{
		"provided_bits": bits,
		"valid_range":   "1-64",
	})
}

// NewErrInvalidRowSelectBits creates an error for an invalid k
func NewErrInvalidRowSelectBits(bits int) error {
	return errors.NewWithContext(ErrCodeInvalidRowSelectBits, msgInvalidRowSelectBits, map[string]interface{}{
		"provided_bits": bits,
		"valid_range":   "1-24",
	})
}

// NewErrInvalidColumnSelectBits creates an error for an invalid m
func NewErrInvalidColumnSelectBits(bits int) error {
	return errors.NewWithContext(ErrCodeInvalidColumnSelectBits, msgInvalidColumnSelectBits, map[string]interface{}{
		"provided_bits": bits,
		"valid_range":   "1-24",
	})
}

// NewErrInvalidCounterBits creates an error for an invalid counter width
func NewErrInvalidCounterBits(bits int) error {
	return errors.NewWithContext(ErrCodeInvalidCounterBits, msgInvalidCounterBits, map[string]interface{}{
		"provided_bits": bits,
		"valid_range":   "1-8",
	})
}

// NewErrInvalidThreadCount creates an error for an invalid thread count
func NewErrInvalidThreadCount(count int) error {
	return errors.NewWithContext(ErrCodeInvalidThreadCount, msgInvalidThreadCount, map[string]interface{}{
		"provided_count": count,
		"valid_range":    "1-256",
	})
}

// NewErrRowSelectExceedsHistory creates an error for k > p
func NewErrRowSelectExceedsHistory(rowBits, historyBits int) error {
	return errors.NewWithContext(ErrCodeRowSelectExceedsHistory, msgRowSelectExceedsHistory, map[string]interface{}{
		"row_select_bits":       rowBits,
		"history_register_bits": historyBits,
	})
}

// NewErrGridTooLarge creates an error for k+m > MaxGridBits
func NewErrGridTooLarge(rowBits, colBits int) error {
	return errors.NewWithContext(ErrCodeGridTooLarge, msgGridTooLarge, map[string]interface{}{
		"row_select_bits":    rowBits,
		"column_select_bits": colBits,
		"maximum_total":      MaxGridBits,
	})
}

// NewErrInvalidHistoryPolicy creates an error for an unknown policy
func NewErrInvalidHistoryPolicy(policy interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidHistoryPolicy, msgInvalidHistoryPolicy, map[string]interface{}{
		"provided_policy": policy,
		"valid_values":    "speculative, resolved",
	})
}

// =============================================================================
// PROTOCOL ERRORS
// =============================================================================

// NewErrInvalidThread creates an error for a thread id outside [0, threads)
func NewErrInvalidThread(op string, thread ThreadID, threads int) error {
	return errors.NewWithContext(ErrCodeInvalidThread, msgInvalidThread, map[string]interface{}{
		"operation":    op,
		"thread":       int(thread),
		"thread_count": threads,
	}).WithSeverity("critical")
}

// NewErrInvalidToken creates an error for an empty (never issued) token
func NewErrInvalidToken(op string, thread ThreadID) error {
	return errors.NewWithContext(ErrCodeInvalidToken, msgInvalidToken, map[string]interface{}{
		"operation": op,
		"thread":    int(thread),
	}).WithSeverity("critical")
}

// NewErrTokenConsumed creates an error for a second terminal call on a token
func NewErrTokenConsumed(op string, thread ThreadID, entry uint32) error {
	return errors.NewWithContext(ErrCodeTokenConsumed, msgTokenConsumed, map[string]interface{}{
		"operation":   op,
		"thread":      int(thread),
		"entry_index": entry,
	}).WithSeverity("critical")
}

// NewErrTokenThreadMismatch creates an error for a token used on the wrong thread
func NewErrTokenThreadMismatch(op string, issued, used ThreadID) error {
	return errors.NewWithContext(ErrCodeTokenThreadMismatch, msgTokenThreadMismatch, map[string]interface{}{
		"operation":     op,
		"issued_thread": int(issued),
		"used_thread":   int(used),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeInvalidConfig,
		ErrCodeInvalidAddressIndexBits,
		ErrCodeInvalidHistoryBits,
		ErrCodeInvalidRowSelectBits,
		ErrCodeInvalidColumnSelectBits,
		ErrCodeInvalidCounterBits,
		ErrCodeInvalidThreadCount,
		ErrCodeRowSelectExceedsHistory,
		ErrCodeGridTooLarge,
		ErrCodeInvalidHistoryPolicy:
		return true
	}
	return false
}

// IsTokenError checks if error is a history token protocol violation
func IsTokenError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeInvalidToken, ErrCodeTokenConsumed, ErrCodeTokenThreadMismatch:
		return true
	}
	return false
}

// IsInvalidThread checks if error reports an out-of-range thread id
func IsInvalidThread(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidThread)
}

// IsRetryable checks if the error can be retried. No predictor error is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var pErr *errors.Error
	if goerrors.As(err, &pErr) {
		return pErr.Context
	}
	return nil
}
