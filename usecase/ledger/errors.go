package ledger

import (
	"errors"

	"github.com/radhian/ledger-engine/infra/db/dao"
)

var (
	// ErrUnknownTransactionType means stored or submitted data is corrupt. It is never retried.
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrPreconditionFailed is a caller bug: update or delete without a usable pre-image.
	ErrPreconditionFailed = errors.New("precondition failed")

	ErrProtectedTransaction = errors.New("protected transaction")
	ErrAccountNotFound      = errors.New("account not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrNotValuationAccount  = errors.New("account balance is not valuation based")

	ErrReconciliationInProgress = errors.New("reconciliation already in progress")
	ErrReconciliationThrottled  = errors.New("reconciliation rate limit exceeded")

	ErrConcurrencyConflict  = dao.ErrConcurrencyConflict
	ErrDuplicateTransaction = dao.ErrDuplicate
)
