package constants

import "time"

// Database
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Redis key prefixes
const (
	RedisKeyLoginAttempts  = "login_attempts:"
	RedisKeyTokenBlacklist = "token_blacklist:"
	RedisKeyEventCache     = "event_cache:"
)

// Login throttling
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// Cache TTLs
const (
	EventCacheTTL = 60 * time.Second
)

// Job queue
const (
	QueueDefault = "default"
	QueueIngest  = "ingest"
)
