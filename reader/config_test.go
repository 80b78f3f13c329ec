package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/pdfcore/logger"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{
			name:      "defaults",
			mutate:    func(*Config) {},
			shouldErr: false,
		},
		{
			name:      "strict mode",
			mutate:    func(c *Config) { c.ParsingMode = Strict },
			shouldErr: false,
		},
		{
			name:      "invalid ParsingMode",
			mutate:    func(c *Config) { c.ParsingMode = "lenient" },
			shouldErr: true,
		},
		{
			name:      "invalid MaxDepth (too low)",
			mutate:    func(c *Config) { c.MaxDepth = 0 },
			shouldErr: true,
		},
		{
			name:      "invalid MaxDepth (too high)",
			mutate:    func(c *Config) { c.MaxDepth = 1001 },
			shouldErr: true,
		},
		{
			name:      "invalid MaxNesting (too high)",
			mutate:    func(c *Config) { c.MaxNesting = 20000 },
			shouldErr: true,
		},
		{
			name:      "invalid MaxConcurrentPages (too high)",
			mutate:    func(c *Config) { c.MaxConcurrentPages = 65 },
			shouldErr: true,
		},
		{
			name:      "invalid Normalize.TargetHeight",
			mutate:    func(c *Config) { c.Normalize.TargetHeight = 0 },
			shouldErr: true,
		},
		{
			name:      "invalid Normalize.VoteSamples",
			mutate:    func(c *Config) { c.Normalize.VoteSamples = 0 },
			shouldErr: true,
		},
		{
			name:      "logger does not affect validation",
			mutate:    func(c *Config) { c.Logger = logger.Discard },
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	custom := DefaultConfig()
	custom.MaxDepth = 7

	for _, opt := range []Option{
		WithConfig(custom),
		WithParsingMode(Strict),
		WithMaxConcurrentPages(9),
		WithLogger(logger.Discard),
	} {
		opt(&cfg)
	}

	assert.Equal(t, 7, cfg.MaxDepth)
	assert.Equal(t, Strict, cfg.ParsingMode)
	assert.Equal(t, 9, cfg.MaxConcurrentPages)
	assert.NotNil(t, cfg.Logger)
}
