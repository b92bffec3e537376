package game

// CoinflipHeadsThreshold is the published bias constant: outcomes below it
// land heads, the rest tails. 0.5 is a fair coin; any house edge is taken on
// payout, never by skewing the flip.
const CoinflipHeadsThreshold = 0.5

// CoinflipMapper maps a uniform outcome to heads or tails.
type CoinflipMapper struct{}

func (CoinflipMapper) GameType() Type { return TypeCoinflip }

func (CoinflipMapper) Map(outcome float64) (Result, error) {
	side := SideTails
	if outcome < CoinflipHeadsThreshold {
		side = SideHeads
	}
	return Result{Game: TypeCoinflip, Side: side}, nil
}
