package engine

import "errors"

// Sentinel errors for the fairness engine. Stores wrap these with operation
// context; callers test with errors.Is.
var (
	// ErrSeedNotFound marks a lookup of a seed id that was never committed.
	ErrSeedNotFound = errors.New("server seed not found")

	// ErrSeedAlreadyRevealed marks an attempt to reveal a seed twice.
	// Revealed is terminal; seeds are never reactivated.
	ErrSeedAlreadyRevealed = errors.New("server seed already revealed")

	// ErrActiveSeedExists marks a concurrent double-activation attempt.
	ErrActiveSeedExists = errors.New("an active server seed already exists")

	// ErrStaleSeed marks a nonce reservation against a seed that is no longer
	// active. The caller must retry against the current active seed.
	ErrStaleSeed = errors.New("server seed is no longer active")

	// ErrNonceConflict marks a detected concurrent reuse of a nonce. The
	// request aborts; it is never retried with the same nonce.
	ErrNonceConflict = errors.New("nonce already consumed")

	// ErrInvalidClientSeed marks a client seed outside the accepted bounds.
	ErrInvalidClientSeed = errors.New("invalid client seed")

	// ErrSeedNotRevealed marks a verification attempt against a seed whose
	// plaintext has not been published yet.
	ErrSeedNotRevealed = errors.New("server seed not yet revealed")

	// ErrVerificationMismatch marks a recomputation that disagrees with
	// published data. It is escalated to the audit trail, never swallowed.
	ErrVerificationMismatch = errors.New("verification mismatch")

	// ErrUnknownGame marks an outcome request for an unsupported game type.
	ErrUnknownGame = errors.New("unknown game type")

	// ErrUnknownCrate marks a draw against a crate the catalog does not know.
	ErrUnknownCrate = errors.New("unknown crate")

	// ErrRoundNotFound marks a lookup of a round id that was never persisted.
	ErrRoundNotFound = errors.New("round not found")
)
