package tree

import (
	"errors"
	"log/slog"

	"github.com/arloliu/ctree/internal/options"
)

type builderConfig struct {
	logger   *slog.Logger
	stackCap int
}

func newBuilderConfig(opts []BuilderOption) builderConfig {
	cfg := builderConfig{
		logger:   slog.New(slog.DiscardHandler),
		stackCap: 16,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		panic("tree: " + err.Error())
	}

	return cfg
}

// BuilderOption configures a Builder or MemBuilder.
type BuilderOption = options.Option[*builderConfig]

// WithLogger sets the logger for node emission (debug) and sink failures (warn).
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) BuilderOption {
	return options.NoError(func(c *builderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithStackCapacity pre-sizes the open subtree stack. It should be at least
// the largest number of children any node will have plus the tree depth.
//
// Panics at construction time if n is negative.
func WithStackCapacity(n int) BuilderOption {
	return options.New(func(c *builderConfig) error {
		if n < 0 {
			return errors.New("stack capacity must not be negative")
		}
		c.stackCap = n

		return nil
	})
}
