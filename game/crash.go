package game

import "math"

const (
	// CrashHouseEdge is the published edge factor applied to every multiplier.
	CrashHouseEdge = 0.01

	// Multiplier bounds after the edge is applied
	MinCrashMultiplier = 1.0
	MaxCrashMultiplier = 10000.0
)

// CrashMapper maps a uniform outcome to a crash multiplier using the
// published curve
//
//	multiplier = floor(100 * (1 - houseEdge) / (1 - outcome)) / 100
//
// clipped to [MinCrashMultiplier, MaxCrashMultiplier]. The curve is monotonic
// in the outcome and reproducible from the outcome alone.
type CrashMapper struct {
	HouseEdge     float64
	MaxMultiplier float64
}

// NewCrashMapper returns a mapper with the published constants.
func NewCrashMapper() CrashMapper {
	return CrashMapper{HouseEdge: CrashHouseEdge, MaxMultiplier: MaxCrashMultiplier}
}

func (CrashMapper) GameType() Type { return TypeCrash }

func (m CrashMapper) Map(outcome float64) (Result, error) {
	raw := (1 - m.HouseEdge) / (1 - outcome)

	// Round down to 2 decimal places
	mult := math.Floor(raw*100) / 100

	if mult < MinCrashMultiplier {
		mult = MinCrashMultiplier
	}
	if mult > m.MaxMultiplier {
		mult = m.MaxMultiplier
	}

	return Result{Game: TypeCrash, Multiplier: mult}, nil
}
