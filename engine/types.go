package engine

import (
	"time"

	"fairhouse/game"
)

/* =========================
   SERVER SEEDS
========================= */

// SeedState is the lifecycle state of a server seed. The only transition is
// Active -> Revealed, triggered by rotation; Revealed is terminal.
type SeedState string

const (
	SeedStateActive   SeedState = "active"
	SeedStateRevealed SeedState = "revealed"
)

// ServerSeed is the committed house secret. The plaintext stays secret while
// the seed is active; the hash is public from creation. Rows are never
// deleted, so the full commitment history stays auditable.
type ServerSeed struct {
	ID         string     `json:"id"`
	Seed       string     `json:"-"` // plaintext, secret while active
	SeedHash   string     `json:"seedHash"`
	State      SeedState  `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// SeedInfo is the public view of a seed: everything except the plaintext.
type SeedInfo struct {
	ID        string    `json:"id"`
	SeedHash  string    `json:"seedHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// Info returns the public view of a seed.
func (s *ServerSeed) Info() SeedInfo {
	return SeedInfo{ID: s.ID, SeedHash: s.SeedHash, CreatedAt: s.CreatedAt}
}

// RevealedSeed is the audit view of a retired seed, plaintext included.
type RevealedSeed struct {
	ID         string    `json:"id"`
	Seed       string    `json:"seed"`
	SeedHash   string    `json:"seedHash"`
	CreatedAt  time.Time `json:"createdAt"`
	RevealedAt time.Time `json:"revealedAt"`
}

/* =========================
   ROUNDS
========================= */

// RoundStatus records whether a round settled or failed after its nonce was
// consumed. Failed rounds keep their nonce forever; nonces are never recycled.
type RoundStatus string

const (
	RoundSettled RoundStatus = "settled"
	RoundFailed  RoundStatus = "failed"
)

// Round is the immutable audit record of one outcome request.
type Round struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	ServerSeedID string      `json:"serverSeedId"`
	ClientSeed   string      `json:"clientSeed"`
	Nonce        uint64      `json:"nonce"`
	GameType     game.Type   `json:"gameType"`
	DerivedValue float64     `json:"derivedValue"`
	Result       game.Result `json:"result"`
	Status       RoundStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}
