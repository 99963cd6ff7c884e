package dao

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrConcurrencyConflict marks a write that lost a race: a version check
	// failed or the store aborted the transaction as non-serializable.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	ErrDuplicate = errors.New("duplicate record")
)

// translateError maps driver level failures onto the dao sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
		case "23505":
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch {
		case liteErr.Code == sqlite3.ErrBusy, liteErr.Code == sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
		case liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
	}
	return err
}
