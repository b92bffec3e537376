package engine

import (
	"context"
	"fmt"
	"log"

	"fairhouse/crypto"
	"fairhouse/game"
)

// Verifier recomputes past rounds from revealed inputs and confirms the
// claimed results. Mismatches imply tampering or a bug: they are escalated to
// the audit trail and never alter already-settled rounds.
type Verifier struct {
	seeds  SeedStore
	rounds RoundStore
	audits AuditStore
	crates *CrateRegistry
	crash  game.CrashMapper
}

func NewVerifier(seeds SeedStore, rounds RoundStore, audits AuditStore, crates *CrateRegistry) *Verifier {
	return &Verifier{
		seeds:  seeds,
		rounds: rounds,
		audits: audits,
		crates: crates,
		crash:  game.NewCrashMapper(),
	}
}

// VerifyRequest carries everything a third party needs to recompute a round.
type VerifyRequest struct {
	RevealedSeed string
	SeedHash     string
	ClientSeed   string
	Nonce        uint64
	Game         game.Type
	CrateID      string
	RoundID      string // optional; links audit records to a stored round
	Claimed      game.Result
}

// VerifyReport is the outcome of a recomputation.
type VerifyReport struct {
	Match        bool        `json:"match"`
	Reason       string      `json:"reason,omitempty"`
	DerivedValue float64     `json:"derivedValue"`
	Recomputed   game.Result `json:"recomputed"`
}

// Verify recomputes a round from its revealed inputs. A commitment or result
// mismatch is reported as Match=false and escalated to the audit trail; only
// operational failures (unknown game, catalog errors) come back as errors.
func (v *Verifier) Verify(ctx context.Context, req VerifyRequest) (*VerifyReport, error) {
	const op = "Verifier.Verify"

	if !crypto.VerifySeed(req.RevealedSeed, req.SeedHash) {
		v.escalate(ctx, req.RoundID, "commitment mismatch",
			fmt.Sprintf("hash(revealed seed) != %s", req.SeedHash))
		return &VerifyReport{Match: false, Reason: "server seed does not match its commitment"}, nil
	}

	outcome := game.Derive(req.RevealedSeed, req.ClientSeed, req.Nonce)

	mapper, err := resolveMapper(ctx, v.crates, v.crash, req.Game, req.CrateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recomputed, err := mapper.Map(outcome)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &VerifyReport{
		Match:        recomputed.Equal(req.Claimed),
		DerivedValue: outcome,
		Recomputed:   recomputed,
	}
	if !report.Match {
		report.Reason = "recomputed result does not match the claim"
		v.escalate(ctx, req.RoundID, "result mismatch",
			fmt.Sprintf("claimed %+v, recomputed %+v", req.Claimed, recomputed))
	}
	return report, nil
}

// VerifyRound recomputes a stored round against its (now revealed) server
// seed. Returns ErrSeedNotRevealed while the seed is still active.
func (v *Verifier) VerifyRound(ctx context.Context, roundID string) (*VerifyReport, error) {
	const op = "Verifier.VerifyRound"

	round, err := v.rounds.ByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seed, err := v.seeds.ByID(ctx, round.ServerSeedID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if seed.State != SeedStateRevealed {
		return nil, fmt.Errorf("%s: %w", op, ErrSeedNotRevealed)
	}

	return v.Verify(ctx, VerifyRequest{
		RevealedSeed: seed.Seed,
		SeedHash:     seed.SeedHash,
		ClientSeed:   round.ClientSeed,
		Nonce:        round.Nonce,
		Game:         round.GameType,
		CrateID:      round.Result.CrateID,
		RoundID:      round.ID,
		Claimed:      round.Result,
	})
}

// escalate records a mismatch for manual review. Audit failures are logged,
// never allowed to mask the mismatch itself.
func (v *Verifier) escalate(ctx context.Context, roundID, reason, detail string) {
	log.Printf("🚨 %v: round=%q reason=%s detail=%s", ErrVerificationMismatch, roundID, reason, detail)
	if err := v.audits.Record(ctx, roundID, reason, detail); err != nil {
		log.Printf("⚠️  Failed to record fairness audit entry: %v", err)
	}
}
