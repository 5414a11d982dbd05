package usecase

import "errors"

// Classifier taxonomy. The orchestrator and the delivery boundary branch on
// these four categories only; raw vendor failures never escape past them.
//
// ErrCredentialExpired takes priority over ErrNoAccountConnected even when
// the raw symptoms overlap: the distinction drives whether the user is asked
// to reconnect an existing account or to connect one in the first place.
var (
	ErrNoAccountConnected = errors.New("no account connected for this platform")
	ErrCredentialExpired  = errors.New("platform credentials expired")
	ErrPartialFailure     = errors.New("some platform calls failed")
	ErrGenericFailure     = errors.New("platform temporarily unavailable")
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	// ErrAccountNotResolved means a platform that requires an explicit
	// account was fetched before resolution completed; callers defer and
	// retry rather than fail.
	ErrAccountNotResolved = errors.New("account selection not resolved yet")
	ErrAccountNotFound    = errors.New("account is not connected to this platform")
)
