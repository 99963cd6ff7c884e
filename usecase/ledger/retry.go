package ledger

import (
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
)

// retryOnConflict runs fn and, when it fails with a concurrency conflict,
// runs it exactly once more. fn sees the attempt number so it can refresh
// whatever it read before the first try.
func retryOnConflict(op string, fn func(attempt int) error) error {
	err := fn(0)
	if !errors.Is(err, ErrConcurrencyConflict) {
		return err
	}

	log.Warnf("[Retry] %s: %v, retrying once", op, err)
	if err = fn(1); err != nil && errors.Is(err, ErrConcurrencyConflict) {
		return fmt.Errorf("%s failed after retry: %w", op, err)
	}
	return err
}
