package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"fairhouse/api"
	"fairhouse/config"
	"fairhouse/db"
	"fairhouse/engine"
	"fairhouse/ws"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables")
	} else {
		log.Println("✅ Loaded environment variables from .env")
	}

	// Initialize database connections
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("❌ PostgreSQL initialization failed: %v", err)
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Seed caching and the recent rounds feed will be disabled")
	}
	defer db.CloseRedis()

	// Wire stores into the engine
	seeds := db.NewSeedStore(db.PostgresPool)
	clientSeeds := db.NewClientSeedStore(db.PostgresPool)
	nonces := db.NewNonceStore(db.PostgresPool)
	rounds := db.NewRoundStore(db.PostgresPool)
	audits := db.NewAuditStore(db.PostgresPool)
	crates := db.NewCrateCatalog(db.PostgresPool)

	eng := engine.New(seeds, clientSeeds, nonces, rounds, crates)
	verifier := engine.NewVerifier(seeds, rounds, audits, eng.Crates)

	// Commit the first server seed if none is active yet
	ctx := context.Background()
	info, err := eng.Seeds.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("❌ Seed bootstrap failed: %v", err)
	}
	log.Printf("🌱 Active server seed %s (hash %s)", info.ID, info.SeedHash)

	// Live fairness feed
	feed := ws.NewFeed()
	eng.SetFeed(feed)

	server := api.NewServer(eng, verifier)

	r := chi.NewRouter()
	r.Mount("/", server.Routes())
	r.Get("/ws", feed.HandleWS)

	addr := serverAddr()
	log.Printf("🚀 Server starting on %s", addr)
	log.Println("")
	log.Println("📡 WebSocket Endpoints:")
	log.Println("   ws://localhost:8080/ws - Fairness feed (settled rounds + seed rotations)")
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   GET  /api/seed/active - Active seed commitment")
	log.Println("   POST /api/seed/rotate - Rotate and reveal the server seed")
	log.Println("   GET  /api/seed/history - Revealed seed history")
	log.Println("   GET  /api/client-seed/:userId - Get a user's client seed")
	log.Println("   POST /api/client-seed - Set a user's client seed")
	log.Println("   POST /api/play - Play one provably-fair round")
	log.Println("   POST /api/verify - Verify a revealed round")
	log.Println("   GET  /api/rounds/recent - Recently settled rounds")
	log.Println("   GET  /api/rounds/:id - Round details")
	log.Println("   GET  /api/rounds/:id/verify - Recompute a stored round")
	log.Println("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Println("")

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("❌ Server error:", err)
	}
}

func serverAddr() string {
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = config.ServerHost
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = config.ServerPort
	}
	return host + ":" + port
}
