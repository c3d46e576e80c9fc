package model

import (
	"context"
	"errors"
)

var (
	// ErrProviderUnavailable covers network failures, timeouts and upstream 5xx.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrSymbolNotFound means the provider returned no history for the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrInsufficientHistory means the series is shorter than an indicator window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrFocusNotSet means a chart stream was requested without a symbol.
	ErrFocusNotSet = errors.New("focus symbol not set")
)

// ErrorKind is a short label used in logs and metrics.
type ErrorKind string

const (
	KindNone                ErrorKind = "none"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindSymbolNotFound      ErrorKind = "symbol_not_found"
	KindInsufficientHistory ErrorKind = "insufficient_history"
	KindFocusNotSet         ErrorKind = "focus_not_set"
	KindCanceled            ErrorKind = "canceled"
	KindUnknown             ErrorKind = "unknown"
)

// KindOf classifies err into one of the known kinds.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSymbolNotFound):
		return KindSymbolNotFound
	case errors.Is(err, ErrInsufficientHistory):
		return KindInsufficientHistory
	case errors.Is(err, ErrFocusNotSet):
		return KindFocusNotSet
	case errors.Is(err, ErrProviderUnavailable):
		return KindProviderUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
