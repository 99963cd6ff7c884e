package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
)

func (u *ledgerUsecase) CreateTransaction(ctx context.Context, ownerID string, req entity.NewTransaction) (*model.Transaction, error) {
	var created model.Transaction
	err := retryOnConflict("create transaction", func(int) error {
		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			trx, err := u.createOne(d, ownerID, req)
			created = trx
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[CreateTransaction] owner %s transaction %s %s %s", ownerID, created.ID, created.Type, created.Amount)
	return &created, nil
}

// CreateTransactions records a batch in one unit of work. Any failure rolls
// back every row and every balance change.
func (u *ledgerUsecase) CreateTransactions(ctx context.Context, ownerID string, reqs []entity.NewTransaction) ([]model.Transaction, error) {
	var created []model.Transaction
	err := retryOnConflict("create transactions", func(int) error {
		created = make([]model.Transaction, 0, len(reqs))
		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			for i, req := range reqs {
				trx, err := u.createOne(d, ownerID, req)
				if err != nil {
					return fmt.Errorf("transaction %d: %w", i, err)
				}
				created = append(created, trx)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[CreateTransactions] owner %s recorded %d transactions", ownerID, len(created))
	return created, nil
}

func (u *ledgerUsecase) createOne(d dao.DaoMethod, ownerID string, req entity.NewTransaction) (model.Transaction, error) {
	trx, err := u.buildTransaction(ownerID, req)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := d.CreateTransaction(&trx); err != nil {
		return model.Transaction{}, err
	}
	if err := u.applyEffect(d, trx, 1); err != nil {
		return model.Transaction{}, err
	}
	return trx, nil
}

func (u *ledgerUsecase) buildTransaction(ownerID string, req entity.NewTransaction) (model.Transaction, error) {
	if ownerID == "" {
		return model.Transaction{}, fmt.Errorf("%w: owner is required", ErrInvalidTransaction)
	}

	trx := model.Transaction{
		OwnerID:              ownerID,
		Description:          strings.TrimSpace(req.Description),
		Amount:               req.Amount,
		Date:                 req.Date.UTC(),
		Type:                 req.Type,
		Status:               req.Status,
		AccountID:            nonEmpty(req.AccountID),
		DestinationAccountID: nonEmpty(req.DestinationAccountID),
		BudgetID:             nonEmpty(req.BudgetID),
		CategoryID:           nonEmpty(req.CategoryID),
		Note:                 req.Note,
		Source:               req.Source,
		ExternalID:           nonEmpty(req.ExternalID),
		Kind:                 req.Metadata.Kind(),
		Locked:               req.Metadata.IsLocked(),
	}
	if req.Date.IsZero() {
		trx.Date = u.clock()
	}
	if trx.Status == "" {
		trx.Status = consts.StatusSettled
	}
	if trx.Source == "" {
		trx.Source = consts.SourceUser
	}

	if err := validateTransaction(trx); err != nil {
		return model.Transaction{}, err
	}
	return trx, nil
}

func validateTransaction(trx model.Transaction) error {
	if _, err := CalculateDelta(trx.Type, trx.Amount); err != nil {
		return err
	}

	switch trx.Status {
	case consts.StatusSettled, consts.StatusUnsettled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransaction, trx.Status)
	}

	// income and expense may stay unlinked to any account
	if trx.Type == consts.TransactionTypeTransfer {
		if trx.AccountID == nil {
			return fmt.Errorf("%w: transfer needs a source account", ErrInvalidTransaction)
		}
		if trx.DestinationAccountID == nil {
			return fmt.Errorf("%w: transfer needs a destination account", ErrInvalidTransaction)
		}
		if *trx.DestinationAccountID == *trx.AccountID {
			return fmt.Errorf("%w: transfer source and destination are the same account", ErrInvalidTransaction)
		}
	} else if trx.DestinationAccountID != nil {
		return fmt.Errorf("%w: only transfers have a destination account", ErrInvalidTransaction)
	}
	return nil
}

// UpdateTransaction reverses the effect recorded in old and applies the
// effect of the patched transaction in one unit of work.
func (u *ledgerUsecase) UpdateTransaction(ctx context.Context, ownerID, trxID string, patch entity.TransactionPatch, old TransactionSnapshot) (*model.Transaction, error) {
	if err := old.checkTarget(ownerID, trxID); err != nil {
		return nil, err
	}

	snapshot := old
	var updated model.Transaction
	err := retryOnConflict("update transaction", func(attempt int) error {
		if attempt > 0 {
			fresh, err := loadSnapshot(u.dao, ownerID, trxID)
			if err != nil {
				return err
			}
			snapshot = fresh
		}
		if err := checkProtectedEdit(snapshot.trx, patch); err != nil {
			return err
		}

		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			stored, err := d.GetTransaction(ownerID, trxID)
			if errors.Is(err, dao.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrTransactionNotFound, trxID)
			}
			if err != nil {
				return err
			}
			if !snapshot.matches(stored) {
				return fmt.Errorf("%w: transaction %s changed since it was read", ErrConcurrencyConflict, trxID)
			}

			next := patchTransaction(stored, patch)
			if err := validateTransaction(next); err != nil {
				return err
			}

			if err := u.applyEffect(d, snapshot.trx, -1); err != nil {
				return err
			}
			if err := u.applyEffect(d, next, 1); err != nil {
				return err
			}
			if err := d.SaveTransaction(&next); err != nil {
				return err
			}
			updated = next
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[UpdateTransaction] owner %s transaction %s now %s %s", ownerID, trxID, updated.Type, updated.Amount)
	return &updated, nil
}

// DeleteTransaction reverses the effect recorded in old and removes the row.
func (u *ledgerUsecase) DeleteTransaction(ctx context.Context, ownerID, trxID string, old TransactionSnapshot) error {
	if err := old.checkTarget(ownerID, trxID); err != nil {
		return err
	}

	snapshot := old
	err := retryOnConflict("delete transaction", func(attempt int) error {
		if attempt > 0 {
			fresh, err := loadSnapshot(u.dao, ownerID, trxID)
			if err != nil {
				return err
			}
			snapshot = fresh
		}
		if err := checkProtectedDelete(snapshot.trx); err != nil {
			return err
		}

		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			stored, err := d.GetTransaction(ownerID, trxID)
			if errors.Is(err, dao.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrTransactionNotFound, trxID)
			}
			if err != nil {
				return err
			}
			if !snapshot.matches(stored) {
				return fmt.Errorf("%w: transaction %s changed since it was read", ErrConcurrencyConflict, trxID)
			}

			if err := u.applyEffect(d, snapshot.trx, -1); err != nil {
				return err
			}
			return d.DeleteTransaction(ownerID, trxID)
		})
	})
	if err != nil {
		return err
	}

	log.Infof("[DeleteTransaction] owner %s transaction %s", ownerID, trxID)
	return nil
}

func patchTransaction(trx model.Transaction, patch entity.TransactionPatch) model.Transaction {
	if patch.Description != nil {
		trx.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		trx.Amount = *patch.Amount
	}
	if patch.Date != nil {
		trx.Date = patch.Date.UTC()
	}
	if patch.Type != nil {
		trx.Type = *patch.Type
	}
	if patch.Status != nil {
		trx.Status = *patch.Status
	}
	if patch.AccountID != nil {
		trx.AccountID = nonEmpty(patch.AccountID)
	}
	if patch.DestinationAccountID != nil {
		trx.DestinationAccountID = nonEmpty(patch.DestinationAccountID)
	}
	if patch.BudgetID != nil {
		trx.BudgetID = nonEmpty(patch.BudgetID)
	}
	if patch.CategoryID != nil {
		trx.CategoryID = nonEmpty(patch.CategoryID)
	}
	if patch.Note != nil {
		trx.Note = *patch.Note
	}
	return trx
}

// checkProtectedEdit allows an opening balance to change only its amount,
// category and note.
func checkProtectedEdit(old model.Transaction, patch entity.TransactionPatch) error {
	if old.Kind != consts.KindOpeningBalance {
		return nil
	}

	changed := map[string]bool{
		"description":            patch.Description != nil && strings.TrimSpace(*patch.Description) != old.Description,
		"date":                   patch.Date != nil && !patch.Date.Equal(old.Date),
		"type":                   patch.Type != nil && *patch.Type != old.Type,
		"status":                 patch.Status != nil && *patch.Status != old.Status,
		"account_id":             patch.AccountID != nil && *patch.AccountID != refValue(old.AccountID),
		"destination_account_id": patch.DestinationAccountID != nil && *patch.DestinationAccountID != refValue(old.DestinationAccountID),
		"budget_id":              patch.BudgetID != nil && *patch.BudgetID != refValue(old.BudgetID),
	}

	var fields []string
	for field, diff := range changed {
		if diff {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s cannot change on an opening balance", ErrProtectedTransaction, strings.Join(fields, ", "))
}

func checkProtectedDelete(old model.Transaction) error {
	if old.Kind == consts.KindOpeningBalance {
		return fmt.Errorf("%w: opening balance %s cannot be deleted", ErrProtectedTransaction, old.ID)
	}
	return nil
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
