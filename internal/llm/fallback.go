package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Named pairs a completer with a name used in errors and logs.
type Named struct {
	Name      string
	Completer Completer
}

// Fallback tries backends in order and returns the first success. When all
// fail, the returned error joins every backend error in order.
type Fallback struct {
	backends []Named
	log      *zap.Logger
}

// NewFallback returns a Fallback over backends.
func NewFallback(log *zap.Logger, backends ...Named) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{backends: backends, log: log}
}

// Complete implements Completer.
func (f *Fallback) Complete(ctx context.Context, prompt string) (string, error) {
	if len(f.backends) == 0 {
		return "", ErrNoBackends
	}
	var errs []error
	for _, b := range f.backends {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := b.Completer.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		f.log.Info("backend failed, trying next", zap.String("backend", b.Name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
	}
	return "", errors.Join(errs...)
}
