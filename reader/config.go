package reader

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tsawler/pdfcore/logger"
	"github.com/tsawler/pdfcore/text"
)

// ParsingMode selects how Parse treats a malformed object
type ParsingMode string

const (
	// Strict fails the whole parse on the first malformed object
	Strict ParsingMode = "strict"
	// BestEffort logs malformed objects and leaves them out of the table
	BestEffort ParsingMode = "best-effort"
)

// Config controls parsing and text extraction for one Document
type Config struct {
	ParsingMode        ParsingMode `validate:"oneof=strict best-effort"`
	MaxDepth           int         `validate:"min=1,max=1000"`
	MaxNesting         int         `validate:"min=1,max=10000"`
	MaxConcurrentPages int         `validate:"min=1,max=64"`
	Normalize          text.NormalizeConfig
	Logger             logger.LogFunc `validate:"-"`
}

var validate = validator.New()

// Validate checks the struct tags, including those of Normalize
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfig returns the settings Parse starts from
func DefaultConfig() Config {
	return Config{
		ParsingMode:        BestEffort,
		MaxDepth:           100,
		MaxNesting:         256,
		MaxConcurrentPages: 4,
		Normalize:          text.DefaultNormalizeConfig(),
	}
}

// Option adjusts the Config used by Parse
type Option func(*Config)

// WithConfig replaces the whole configuration
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithLogger sets the function that receives recovered failures
func WithLogger(fn logger.LogFunc) Option {
	return func(c *Config) {
		c.Logger = fn
	}
}

// WithParsingMode selects strict or best-effort parsing
func WithParsingMode(mode ParsingMode) Option {
	return func(c *Config) {
		c.ParsingMode = mode
	}
}

// WithMaxConcurrentPages bounds the pages ExtractAllText works on at once
func WithMaxConcurrentPages(n int) Option {
	return func(c *Config) {
		c.MaxConcurrentPages = n
	}
}
