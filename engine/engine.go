package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"fairhouse/game"
)

// Engine is the provably-fair outcome engine. One round follows a strict
// order: reserve nonce, derive outcome, map to result, persist the round;
// only then may the caller touch balances. Any failure after the nonce
// reservation leaves that nonce permanently consumed and records the round as
// failed instead of discarding it.
type Engine struct {
	Seeds       *SeedManager
	ClientSeeds *ClientSeedRegistry
	Nonces      *NonceCounter
	Crates      *CrateRegistry

	seedStore SeedStore
	rounds    RoundStore
	crash     game.CrashMapper
	feed      Broadcaster
}

func New(seeds SeedStore, clientSeeds ClientSeedStore, nonces NonceStore, rounds RoundStore, catalog CrateCatalog) *Engine {
	return &Engine{
		Seeds:       NewSeedManager(seeds),
		ClientSeeds: NewClientSeedRegistry(clientSeeds),
		Nonces:      NewNonceCounter(nonces),
		Crates:      NewCrateRegistry(catalog),
		seedStore:   seeds,
		rounds:      rounds,
		crash:       game.NewCrashMapper(),
	}
}

// SetFeed attaches a live broadcaster for settled rounds and rotations.
func (e *Engine) SetFeed(feed Broadcaster) { e.feed = feed }

// PlayRequest is the outcome request contract consumed by betting, crate and
// arcade collaborators.
type PlayRequest struct {
	UserID  string
	Game    game.Type
	CrateID string // required for crate rounds
}

// PlayOutcome is everything a collaborator needs to settle and later verify
// a round. The server seed itself stays secret; only its id and hash appear.
type PlayOutcome struct {
	RoundID      string      `json:"roundId"`
	ServerSeedID string      `json:"serverSeedId"`
	SeedHash     string      `json:"seedHash"`
	ClientSeed   string      `json:"clientSeed"`
	Nonce        uint64      `json:"nonce"`
	DerivedValue float64     `json:"derivedValue"`
	Result       game.Result `json:"result"`
}

// Play runs one round end to end against the current active seed.
func (e *Engine) Play(ctx context.Context, req PlayRequest) (*PlayOutcome, error) {
	const op = "Engine.Play"

	if !req.Game.Known() {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownGame, req.Game)
	}

	clientSeed, err := e.ClientSeeds.ClientSeed(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	active, err := e.seedStore.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	nonce, err := e.Nonces.Reserve(ctx, req.UserID, active.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The nonce is consumed from here on, success or not.
	outcome := game.Derive(active.Seed, clientSeed, nonce)

	mapper, err := resolveMapper(ctx, e.Crates, e.crash, req.Game, req.CrateID)
	if err != nil {
		e.recordFailure(ctx, req, active.ID, clientSeed, nonce, outcome)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := mapper.Map(outcome)
	if err != nil {
		e.recordFailure(ctx, req, active.ID, clientSeed, nonce, outcome)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	round := &Round{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		ServerSeedID: active.ID,
		ClientSeed:   clientSeed,
		Nonce:        nonce,
		GameType:     req.Game,
		DerivedValue: outcome,
		Result:       result,
		Status:       RoundSettled,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.rounds.Insert(ctx, round); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if e.feed != nil {
		e.feed.RoundSettled(round)
	}

	return &PlayOutcome{
		RoundID:      round.ID,
		ServerSeedID: round.ServerSeedID,
		SeedHash:     active.SeedHash,
		ClientSeed:   clientSeed,
		Nonce:        nonce,
		DerivedValue: outcome,
		Result:       result,
	}, nil
}

// Rotate retires the active seed and publishes the replacement through the
// feed. Exposed here so rotation and its broadcast stay together.
func (e *Engine) Rotate(ctx context.Context) (*RevealedSeed, SeedInfo, error) {
	retired, next, err := e.Seeds.RotateAndReveal(ctx)
	if err != nil {
		return nil, SeedInfo{}, err
	}
	if e.feed != nil {
		e.feed.SeedRotated(retired, next)
	}
	return retired, next, nil
}

// Round returns a persisted round record.
func (e *Engine) Round(ctx context.Context, id string) (*Round, error) {
	return e.rounds.ByID(ctx, id)
}

// recordFailure persists a failed round so the consumed nonce stays on the
// books. Best effort: a failed write here is logged, not returned, because
// the caller already gets the original failure.
func (e *Engine) recordFailure(ctx context.Context, req PlayRequest, seedID, clientSeed string, nonce uint64, outcome float64) {
	round := &Round{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		ServerSeedID: seedID,
		ClientSeed:   clientSeed,
		Nonce:        nonce,
		GameType:     req.Game,
		DerivedValue: outcome,
		Result:       game.Result{Game: req.Game},
		Status:       RoundFailed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.rounds.Insert(ctx, round); err != nil {
		log.Printf("⚠️  Failed to record failed round (user %s, nonce %d): %v", req.UserID, nonce, err)
	}
}

// resolveMapper picks the mapper for a game type; crate rounds compile their
// table from the catalog.
func resolveMapper(ctx context.Context, crates *CrateRegistry, crash game.CrashMapper, gt game.Type, crateID string) (game.ResultMapper, error) {
	switch gt {
	case game.TypeCoinflip:
		return game.CoinflipMapper{}, nil
	case game.TypeCrash:
		return crash, nil
	case game.TypeCrate:
		if crateID == "" {
			return nil, fmt.Errorf("%w: crate round without crate id", ErrUnknownCrate)
		}
		return crates.Table(ctx, crateID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, gt)
	}
}
