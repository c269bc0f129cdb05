package machine

import "github.com/caarlos0/env/v6"

// Config tunes the VM's resource usage. It is populated by env.Parse, the
// same caarlos0/env technique the rest of the ecosystem this project draws
// on uses for env-driven settings, applied here to VM knobs instead of HTTP
// or CLI flags.
type Config struct {
	// GCEvery is the live heap object count at which the VM runs its first
	// collection, and the lowest collection threshold it ever uses.
	GCEvery int `env:"EMBER_GC_EVERY" envDefault:"256"`
	// GCGrowFactor sets the next threshold after each collection: the
	// number of objects that survived, plus one, times GCGrowFactor (never
	// below GCEvery), so the threshold follows the size of the live set.
	GCGrowFactor float64 `env:"EMBER_GC_GROW_FACTOR" envDefault:"2.0"`
	// MaxSteps bounds the number of instructions a single Run executes,
	// guarding against runaway or infinite-looping programs; 0 means
	// unbounded.
	MaxSteps int `env:"EMBER_MAX_STEPS" envDefault:"0"`
	// StackHint is the initial operand stack capacity.
	StackHint int `env:"EMBER_STACK_HINT" envDefault:"256"`
}

// LoadConfig reads VM tuning from the environment, falling back to the
// defaults above for anything unset.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns Config with its env defaults applied, for callers
// that don't want to read the environment (tests, embeddings).
func DefaultConfig() Config {
	return Config{
		GCEvery:      256,
		GCGrowFactor: 2.0,
		MaxSteps:     0,
		StackHint:    256,
	}
}
