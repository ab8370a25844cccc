// Package config defines service configuration structures and loading.
package config

// Backend names for the storage, session, and judge ports.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	JudgeHeuristic = "heuristic"
	JudgeOpenAI    = "openai"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the persistent store backend: memory or postgres.
	Storage string `koanf:"storage"`

	// PostgresDSN is the pgx connection string when Storage is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// Sessions selects the session ledger backend: memory or redis.
	Sessions string `koanf:"sessions"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// SessionTTLHours bounds how long an abandoned redis session lives.
	SessionTTLHours int `koanf:"session_ttl_hours"`

	// JournalQueueSize bounds the vote journal backlog.
	JournalQueueSize int `koanf:"journal_queue_size"`

	// JournalWorkers sets the number of journal drain workers.
	JournalWorkers int `koanf:"journal_workers"`

	// Judge selects the flag-or-not judge: heuristic or openai.
	Judge string `koanf:"judge"`

	// OpenAIAPIKey and OpenAIModel configure the openai judge.
	OpenAIAPIKey string `koanf:"openai_api_key"`
	OpenAIModel  string `koanf:"openai_model"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MaxFeedLimit caps GET /verdict/feed?limit.
	MaxFeedLimit int `koanf:"max_feed_limit"`
}

// New returns the hardcoded defaults: a fully in-process setup that runs
// with no external services.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		Storage:             StorageMemory,
		Sessions:            SessionsMemory,
		RedisAddr:           "localhost:6379",
		SessionTTLHours:     24,
		JournalQueueSize:    10_000,
		JournalWorkers:      4,
		Judge:               JudgeHeuristic,
		MaxLeaderboardLimit: 100,
		MaxFeedLimit:        100,
	}
}
