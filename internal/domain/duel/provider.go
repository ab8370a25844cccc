package duel

import "sync"

// ConfigProvider owns the live engine config. Reads are snapshot-consistent
// deep copies; writes replace the whole config atomically after validation
// or not at all. Concurrent writes are last-write-wins.
type ConfigProvider struct {
	mu  sync.RWMutex
	cfg Config
}

// NewConfigProvider starts at the hardcoded defaults.
func NewConfigProvider() *ConfigProvider {
	return &ConfigProvider{cfg: DefaultConfig()}
}

// Get returns a snapshot of the current config.
func (p *ConfigProvider) Get() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Clone()
}

// Set validates and installs a full replacement config. On validation
// failure the effective config is left untouched.
func (p *ConfigProvider) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.cfg = cfg.Clone()
	p.mu.Unlock()
	return nil
}

// Reset clears any override, reverting to the hardcoded defaults.
func (p *ConfigProvider) Reset() {
	p.mu.Lock()
	p.cfg = DefaultConfig()
	p.mu.Unlock()
}
