package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"fairhouse/crypto"
	"fairhouse/db"
)

// Walks every stored server seed and checks that the published hash really is
// sha256 of the stored plaintext. A mismatch means the commitment chain is
// broken and has to be investigated by hand.
func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL not set")
	}

	// Init postgres
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	ctx := context.Background()

	rows, err := db.PostgresPool.Query(ctx,
		"SELECT id, seed, seed_hash, state FROM server_seeds ORDER BY created_at")
	if err != nil {
		log.Fatalf("Failed to query server seeds: %v", err)
	}
	defer rows.Close()

	fmt.Println("Auditing server seed commitments...")

	total := 0
	broken := 0
	for rows.Next() {
		var id, seed, seedHash, state string
		if err := rows.Scan(&id, &seed, &seedHash, &state); err != nil {
			log.Fatalf("Failed to scan seed row: %v", err)
		}
		total++

		if crypto.VerifySeed(seed, seedHash) {
			fmt.Printf("  ok      %s (%s)\n", id, state)
		} else {
			broken++
			fmt.Printf("  BROKEN  %s (%s): hash(seed) != %s\n", id, state, seedHash)
		}
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Seed row iteration failed: %v", err)
	}

	fmt.Printf("\nDone. %d seeds checked, %d broken.\n", total, broken)
	if broken > 0 {
		os.Exit(1)
	}
}
