package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"fairhouse/game"
)

var errAssert = errors.New("injected store failure")

// In-memory store fakes. Mutex-guarded so the nonce fake honors the same
// linearizability contract the SQL stores provide.

type memSeedStore struct {
	mu    sync.Mutex
	seeds map[string]*ServerSeed
	order []string
}

func newMemSeedStore() *memSeedStore {
	return &memSeedStore{seeds: make(map[string]*ServerSeed)}
}

func (s *memSeedStore) InsertActive(_ context.Context, seed *ServerSeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.seeds {
		if existing.State == SeedStateActive {
			return ErrActiveSeedExists
		}
	}
	cp := *seed
	s.seeds[seed.ID] = &cp
	s.order = append(s.order, seed.ID)
	return nil
}

func (s *memSeedStore) Active(_ context.Context) (*ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seed := range s.seeds {
		if seed.State == SeedStateActive {
			cp := *seed
			return &cp, nil
		}
	}
	return nil, ErrSeedNotFound
}

func (s *memSeedStore) ByID(_ context.Context, id string) (*ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed, ok := s.seeds[id]
	if !ok {
		return nil, ErrSeedNotFound
	}
	cp := *seed
	return &cp, nil
}

func (s *memSeedStore) RotateAndReveal(_ context.Context, next *ServerSeed) (*ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active *ServerSeed
	for _, seed := range s.seeds {
		if seed.State == SeedStateActive {
			active = seed
			break
		}
	}
	if active == nil {
		return nil, ErrSeedNotFound
	}

	now := time.Now().UTC()
	active.State = SeedStateRevealed
	active.RevealedAt = &now

	cp := *next
	s.seeds[next.ID] = &cp
	s.order = append(s.order, next.ID)

	retired := *active
	return &retired, nil
}

func (s *memSeedStore) Revealed(_ context.Context, limit int) ([]*ServerSeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*ServerSeed
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		seed := s.seeds[s.order[i]]
		if seed.State == SeedStateRevealed {
			cp := *seed
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memClientSeedStore struct {
	mu    sync.Mutex
	seeds map[string]string
}

func newMemClientSeedStore() *memClientSeedStore {
	return &memClientSeedStore{seeds: make(map[string]string)}
}

func (s *memClientSeedStore) Get(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds[userID], nil
}

func (s *memClientSeedStore) Set(_ context.Context, userID, seed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[userID] = seed
	return nil
}

type nonceKey struct {
	userID string
	seedID string
}

type memNonceStore struct {
	mu    sync.Mutex
	seeds *memSeedStore
	next  map[nonceKey]uint64
}

func newMemNonceStore(seeds *memSeedStore) *memNonceStore {
	return &memNonceStore{seeds: seeds, next: make(map[nonceKey]uint64)}
}

func (s *memNonceStore) Reserve(ctx context.Context, userID, serverSeedID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed, err := s.seeds.ByID(ctx, serverSeedID)
	if err != nil {
		return 0, err
	}
	if seed.State != SeedStateActive {
		return 0, ErrStaleSeed
	}

	key := nonceKey{userID: userID, seedID: serverSeedID}
	nonce := s.next[key]
	s.next[key] = nonce + 1
	return nonce, nil
}

type memRoundStore struct {
	mu         sync.Mutex
	rounds     map[string]*Round
	inserted   []*Round
	failInsert bool
}

func newMemRoundStore() *memRoundStore {
	return &memRoundStore{rounds: make(map[string]*Round)}
}

func (s *memRoundStore) Insert(_ context.Context, round *Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failInsert {
		return errAssert
	}
	cp := *round
	s.rounds[round.ID] = &cp
	s.inserted = append(s.inserted, &cp)
	return nil
}

func (s *memRoundStore) ByID(_ context.Context, id string) (*Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *round
	return &cp, nil
}

type auditEntry struct {
	roundID string
	reason  string
	detail  string
}

type memAuditStore struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *memAuditStore) Record(_ context.Context, roundID, reason, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{roundID: roundID, reason: reason, detail: detail})
	return nil
}

func (s *memAuditStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type memCatalog struct {
	dists map[string]*game.CrateDistribution
}

func (c *memCatalog) Distribution(_ context.Context, crateID string) (*game.CrateDistribution, error) {
	return c.dists[crateID], nil
}

type memFeed struct {
	mu        sync.Mutex
	rounds    []*Round
	rotations int
}

func (f *memFeed) RoundSettled(round *Round) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rounds = append(f.rounds, round)
}

func (f *memFeed) SeedRotated(*RevealedSeed, SeedInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotations++
}

// testRig wires an engine and verifier over the in-memory fakes.
type testRig struct {
	engine   *Engine
	verifier *Verifier
	seeds    *memSeedStore
	clients  *memClientSeedStore
	nonces   *memNonceStore
	rounds   *memRoundStore
	audits   *memAuditStore
	catalog  *memCatalog
	feed     *memFeed
}

func newTestRig() *testRig {
	seeds := newMemSeedStore()
	clients := newMemClientSeedStore()
	nonces := newMemNonceStore(seeds)
	rounds := newMemRoundStore()
	audits := &memAuditStore{}
	catalog := &memCatalog{dists: map[string]*game.CrateDistribution{
		"starter": {
			CrateID: "starter",
			Items: []game.CrateItem{
				{ItemID: "common", Weight: 0.5},
				{ItemID: "rare", Weight: 0.3},
				{ItemID: "legendary", Weight: 0.2},
			},
		},
	}}
	feed := &memFeed{}

	eng := New(seeds, clients, nonces, rounds, catalog)
	eng.SetFeed(feed)

	return &testRig{
		engine:   eng,
		verifier: NewVerifier(seeds, rounds, audits, eng.Crates),
		seeds:    seeds,
		clients:  clients,
		nonces:   nonces,
		rounds:   rounds,
		audits:   audits,
		catalog:  catalog,
		feed:     feed,
	}
}
