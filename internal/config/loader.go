package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ARENA_ADDR, ARENA_POSTGRES_DSN, ...
	// Keys keep their underscores to match the koanf tags.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "arena_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres storage requires postgres_dsn", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage)
	}
	switch c.Sessions {
	case SessionsMemory:
	case SessionsRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis sessions require redis_addr", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Sessions)
	}
	switch c.Judge {
	case JudgeHeuristic:
	case JudgeOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: openai judge requires openai_api_key", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown judge backend %q", ErrInvalidConfig, c.Judge)
	}
	if c.JournalQueueSize < 1 {
		return fmt.Errorf("%w: journal_queue_size must be >= 1", ErrInvalidConfig)
	}
	if c.JournalWorkers < 1 {
		return fmt.Errorf("%w: journal_workers must be >= 1", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 || c.MaxFeedLimit < 1 {
		return fmt.Errorf("%w: response limits must be >= 1", ErrInvalidConfig)
	}
	return nil
}
