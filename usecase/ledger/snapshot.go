package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
)

// TransactionSnapshot is the persisted state of a transaction as the caller
// last saw it. Update and delete reverse this pre-image, so it can only be
// built from a stored row.
type TransactionSnapshot struct {
	trx model.Transaction
}

// NewSnapshot wraps a transaction previously read from the store.
func NewSnapshot(trx model.Transaction) TransactionSnapshot {
	return TransactionSnapshot{trx: trx}
}

func (s TransactionSnapshot) IsZero() bool {
	return s.trx.ID == ""
}

func (s TransactionSnapshot) Transaction() model.Transaction {
	return s.trx
}

// LoadSnapshot reads the current persisted state of a transaction.
func (u *ledgerUsecase) LoadSnapshot(_ context.Context, ownerID, trxID string) (TransactionSnapshot, error) {
	return loadSnapshot(u.dao, ownerID, trxID)
}

func loadSnapshot(d dao.DaoMethod, ownerID, trxID string) (TransactionSnapshot, error) {
	trx, err := d.GetTransaction(ownerID, trxID)
	if errors.Is(err, dao.ErrNotFound) {
		return TransactionSnapshot{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, trxID)
	}
	if err != nil {
		return TransactionSnapshot{}, err
	}
	return NewSnapshot(trx), nil
}

func (s TransactionSnapshot) checkTarget(ownerID, trxID string) error {
	if s.IsZero() {
		return fmt.Errorf("%w: a snapshot of the stored transaction is required", ErrPreconditionFailed)
	}
	if s.trx.ID != trxID || s.trx.OwnerID != ownerID {
		return fmt.Errorf("%w: snapshot is for transaction %s, not %s", ErrPreconditionFailed, s.trx.ID, trxID)
	}
	return nil
}

// matches reports whether every balance-relevant field of the snapshot still
// equals the stored row.
func (s TransactionSnapshot) matches(stored model.Transaction) bool {
	old := s.trx
	return old.Amount.Equal(stored.Amount) &&
		old.Date.Equal(stored.Date) &&
		old.Type == stored.Type &&
		old.Status == stored.Status &&
		sameRef(old.AccountID, stored.AccountID) &&
		sameRef(old.DestinationAccountID, stored.DestinationAccountID)
}

func sameRef(a, b *string) bool {
	return refValue(a) == refValue(b)
}

func refValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
