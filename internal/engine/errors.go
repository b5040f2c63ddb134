package engine

import (
	"errors"

	"github.com/peerstat/peerstat/internal/document"
	"github.com/peerstat/peerstat/internal/ledger"
)

// ErrNoLedger indicates an operation that needs a loaded document ran without one.
var ErrNoLedger = errors.New("no progress document loaded")

// Error types surfaced by the engine, re-exported so callers need one import.
type (
	FormatError         = document.FormatError
	ValidationError     = ledger.ValidationError
	RetryExhaustedError = ledger.RetryExhaustedError
)
