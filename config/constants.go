package config

import "time"

/* =========================
   SEED LIFECYCLE
========================= */

const (
	// Server seeds are 32 bytes of crypto/rand entropy, hex-encoded
	ServerSeedBytes = 32

	// Client seed bounds (printable ASCII only)
	ClientSeedMinLen = 1
	ClientSeedMaxLen = 64

	// Default client seeds are 16 random bytes, hex-encoded
	DefaultClientSeedBytes = 16
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	// Public view of the active seed
	// Key: fairness:seed:active
	RedisActiveSeedKey = "fairness:seed:active"

	// Recently settled rounds (LIST, newest first)
	// Key: fairness:rounds:recent
	RedisRecentRoundsKey = "fairness:rounds:recent"
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Cached active-seed view; rotation invalidates early
	ActiveSeedCacheTTL = 1 * time.Minute

	// Number of settled rounds kept in the recent list
	RecentRoundsLimit = 50
)

/* =========================
   CRATE TABLE CACHE
========================= */

const (
	// Compiled crate tables are cached in-process (go-cache)
	CrateTableCacheTTL     = 5 * time.Minute
	CrateTableCacheCleanup = 10 * time.Minute
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	PostgresMaxConns        = 25
	PostgresMinConns        = 5
	PostgresConnMaxLifetime = 5 * time.Minute
)

/* =========================
   API CONFIGURATION
========================= */

const (
	// Server settings
	ServerPort = "8080"
	ServerHost = "0.0.0.0"

	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
	ServerIdleTimeout  = 60 * time.Second

	// Revealed-seed history page size cap
	MaxSeedHistoryLimit = 100
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	WSWriteDeadline = 10 * time.Second

	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024

	// Per-client outbound queue before a slow client is dropped
	WSSendQueueSize = 32
)
