package detection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Chain tries engines in order and returns the first success. When all of
// them fail the joined errors are returned.
type Chain struct {
	engines []Engine
	logger  *slog.Logger
}

// NewChain skips nil engines.
func NewChain(logger *slog.Logger, engines ...Engine) *Chain {
	c := &Chain{logger: logger}
	for _, e := range engines {
		if e != nil {
			c.engines = append(c.engines, e)
		}
	}
	return c
}

// Len is the number of engines in the chain.
func (c *Chain) Len() int { return len(c.engines) }

func (c *Chain) Detect(ctx context.Context, req Request) (annotate.DetectionSet, error) {
	if len(c.engines) == 0 {
		return nil, ErrNoEngine
	}
	var errs []error
	for i, e := range c.engines {
		set, err := e.Detect(ctx, req)
		if err == nil {
			return set, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if c.logger != nil {
			c.logger.Debug("detection engine failed", "index", i, "error", err)
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

var _ Engine = (*Chain)(nil)
