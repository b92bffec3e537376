package game

/* =========================
   GAME TYPES
========================= */

// Type identifies which mapper turns a uniform outcome into a result.
type Type string

const (
	TypeCoinflip Type = "coinflip"
	TypeCrash    Type = "crash"
	TypeCrate    Type = "crate"
)

// Known reports whether t names a supported game.
func (t Type) Known() bool {
	switch t {
	case TypeCoinflip, TypeCrash, TypeCrate:
		return true
	}
	return false
}

/* =========================
   RESULTS
========================= */

// Side is a coinflip result.
type Side string

const (
	SideHeads Side = "heads"
	SideTails Side = "tails"
)

// Result is the concrete outcome of one round. Exactly the fields for the
// round's game type are set; the struct round-trips through JSON unchanged so
// a stored round can be compared against a recomputation field by field.
type Result struct {
	Game       Type    `json:"game"`
	Side       Side    `json:"side,omitempty"`       // coinflip
	Multiplier float64 `json:"multiplier,omitempty"` // crash
	CrateID    string  `json:"crateId,omitempty"`    // crate
	ItemID     string  `json:"itemId,omitempty"`     // crate
}

// Equal reports whether two results are the same concrete outcome.
func (r Result) Equal(other Result) bool {
	return r.Game == other.Game &&
		r.Side == other.Side &&
		r.Multiplier == other.Multiplier &&
		r.CrateID == other.CrateID &&
		r.ItemID == other.ItemID
}

/* =========================
   MAPPER CAPABILITY
========================= */

// ResultMapper turns a uniform [0,1) outcome into a concrete game result.
// Mappers are pure: the same outcome always maps to the same result.
type ResultMapper interface {
	GameType() Type
	Map(outcome float64) (Result, error)
}
