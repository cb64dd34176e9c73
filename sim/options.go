package sim

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

type executeConfig struct {
	random RandomSource
	logger *zap.Logger
}

// ExecuteOption configures a single execution.
type ExecuteOption func(*executeConfig)

// WithSeed makes measurement sampling reproducible.
func WithSeed(seed uint64) ExecuteOption {
	return func(c *executeConfig) {
		c.random = NewSeededSource(seed)
	}
}

// WithRandomSource injects the source used for measurement sampling.
func WithRandomSource(src RandomSource) ExecuteOption {
	return func(c *executeConfig) {
		c.random = src
	}
}

// WithLogger sets the logger for debug events. The default is zap.L().
func WithLogger(logger *zap.Logger) ExecuteOption {
	return func(c *executeConfig) {
		c.logger = logger
	}
}

// NewSeededSource returns a deterministic PCG-backed source.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newExecuteConfig(opts []ExecuteOption) *executeConfig {
	cfg := &executeConfig{
		random: globalSource{},
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
