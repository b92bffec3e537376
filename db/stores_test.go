package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fairhouse/crypto"
	"fairhouse/engine"
	"fairhouse/game"
)

// Exercises the stores against a real database. Skipped unless DATABASE_URL
// is set.
func TestStores(t *testing.T) {
	// Load env
	_ = godotenv.Load("../.env")

	// Check DATABASE_URL
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	// Init postgres
	if err := InitPostgres(); err != nil {
		t.Fatalf("Failed to init postgres: %v", err)
	}
	defer ClosePostgres()

	ctx := context.Background()
	seeds := NewSeedStore(PostgresPool)
	clientSeeds := NewClientSeedStore(PostgresPool)
	nonces := NewNonceStore(PostgresPool)
	rounds := NewRoundStore(PostgresPool)

	testUser := "store-test-" + uuid.NewString()

	newSeed := func(t *testing.T) *engine.ServerSeed {
		t.Helper()
		plaintext, hash, err := crypto.GenerateServerSeed()
		if err != nil {
			t.Fatalf("GenerateServerSeed failed: %v", err)
		}
		return &engine.ServerSeed{
			ID:        uuid.NewString(),
			Seed:      plaintext,
			SeedHash:  hash,
			State:     engine.SeedStateActive,
			CreatedAt: time.Now().UTC(),
		}
	}

	// Make sure exactly one active seed exists for the rest of the test.
	active, err := seeds.Active(ctx)
	if errors.Is(err, engine.ErrSeedNotFound) {
		active = newSeed(t)
		if err := seeds.InsertActive(ctx, active); err != nil {
			t.Fatalf("InsertActive failed: %v", err)
		}
	} else if err != nil {
		t.Fatalf("Active failed: %v", err)
	}

	t.Run("SecondActiveSeedRejected", func(t *testing.T) {
		err := seeds.InsertActive(ctx, newSeed(t))
		if !errors.Is(err, engine.ErrActiveSeedExists) {
			t.Errorf("Expected ErrActiveSeedExists, got %v", err)
		}
	})

	t.Run("ClientSeedRoundTrip", func(t *testing.T) {
		got, err := clientSeeds.Get(ctx, testUser)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "" {
			t.Errorf("Expected empty seed for fresh user, got %q", got)
		}

		if err := clientSeeds.Set(ctx, testUser, "lucky-7"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err = clientSeeds.Get(ctx, testUser)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "lucky-7" {
			t.Errorf("Expected lucky-7, got %q", got)
		}
	})

	t.Run("NonceReservation", func(t *testing.T) {
		first, err := nonces.Reserve(ctx, testUser, active.ID)
		if err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}
		second, err := nonces.Reserve(ctx, testUser, active.ID)
		if err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}
		if second != first+1 {
			t.Errorf("Expected consecutive nonces, got %d then %d", first, second)
		}
	})

	t.Run("ReserveUnknownSeed", func(t *testing.T) {
		_, err := nonces.Reserve(ctx, testUser, uuid.NewString())
		if !errors.Is(err, engine.ErrSeedNotFound) {
			t.Errorf("Expected ErrSeedNotFound, got %v", err)
		}
	})

	t.Run("RoundRoundTrip", func(t *testing.T) {
		nonce, err := nonces.Reserve(ctx, testUser, active.ID)
		if err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}

		round := &engine.Round{
			ID:           uuid.NewString(),
			UserID:       testUser,
			ServerSeedID: active.ID,
			ClientSeed:   "lucky-7",
			Nonce:        nonce,
			GameType:     game.TypeCoinflip,
			DerivedValue: 0.25,
			Result:       game.Result{Game: game.TypeCoinflip, Side: game.SideHeads},
			Status:       engine.RoundSettled,
			CreatedAt:    time.Now().UTC(),
		}
		if err := rounds.Insert(ctx, round); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		got, err := rounds.ByID(ctx, round.ID)
		if err != nil {
			t.Fatalf("ByID failed: %v", err)
		}
		if got.Nonce != nonce || got.Result.Side != game.SideHeads {
			t.Errorf("Round did not round-trip: %+v", got)
		}

		// Same (user, seed, nonce) again must hit the uniqueness guard.
		dup := *round
		dup.ID = uuid.NewString()
		if err := rounds.Insert(ctx, &dup); !errors.Is(err, engine.ErrNonceConflict) {
			t.Errorf("Expected ErrNonceConflict, got %v", err)
		}
	})

	t.Run("RoundNotFound", func(t *testing.T) {
		_, err := rounds.ByID(ctx, uuid.NewString())
		if !errors.Is(err, engine.ErrRoundNotFound) {
			t.Errorf("Expected ErrRoundNotFound, got %v", err)
		}
	})
}
