package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

// RecalculateAccountBalance rebuilds an account balance from its starting
// balance and settled transactions. A dry run only reports; otherwise the
// stored balance is overwritten under a version check.
func (u *ledgerUsecase) RecalculateAccountBalance(ctx context.Context, ownerID, accountID string, dryRun bool) (*entity.RecalculationResult, error) {
	if !u.throttle.Allow(accountID) {
		return nil, fmt.Errorf("%w: account %s", ErrReconciliationThrottled, accountID)
	}
	return u.recalculate(ctx, ownerID, accountID, dryRun)
}

func (u *ledgerUsecase) recalculate(ctx context.Context, ownerID, accountID string, dryRun bool) (*entity.RecalculationResult, error) {
	if !u.locker.TryLock(accountID) {
		return nil, fmt.Errorf("%w: account %s", ErrReconciliationInProgress, accountID)
	}
	defer u.locker.Unlock(accountID)

	if dryRun {
		account, err := u.getAccount(ownerID, accountID)
		if err != nil {
			return nil, err
		}
		valuation, err := u.valuationFor(ctx, account)
		if err != nil {
			return nil, err
		}
		trxs, err := u.dao.ListAccountTransactions(ownerID, accountID, reconciliationSince(account))
		if err != nil {
			return nil, err
		}
		result, err := computeRecalculation(account, trxs, valuation)
		if err != nil {
			return nil, err
		}
		result.DryRun = true
		return &result, nil
	}

	var result entity.RecalculationResult
	err := retryOnConflict("recalculate balance", func(int) error {
		pre, err := u.getAccount(ownerID, accountID)
		if err != nil {
			return err
		}
		valuation, err := u.valuationFor(ctx, pre)
		if err != nil {
			return err
		}

		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			account, err := d.GetAccountForUpdate(ownerID, accountID)
			if errors.Is(err, dao.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
			}
			if err != nil {
				return err
			}

			trxs, err := d.ListAccountTransactions(ownerID, accountID, reconciliationSince(account))
			if err != nil {
				return err
			}
			res, err := computeRecalculation(account, trxs, valuation)
			if err != nil {
				return err
			}

			account.Balance = res.CalculatedBalance
			account.StartingBalance = res.StartingBalance
			if err := d.UpdateAccountBalanceIfVersion(account, account.Version); err != nil {
				return err
			}
			if err := d.CreateAccountHistory(&model.AccountHistory{
				AccountID: account.ID,
				Balance:   account.Balance,
				Date:      u.clock(),
				Source:    consts.HistorySourceRecalculation,
			}); err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Reconcile] account %s: %s -> %s (deviation %s, double counted %t)",
		accountID, result.CurrentBalance, result.CalculatedBalance, result.Deviation, result.WasDoubleCounted)
	return &result, nil
}

// computeRecalculation is pure: it derives the balance the account should
// have from the rows it is given.
func computeRecalculation(account model.Account, trxs []model.Transaction, valuation *decimal.Decimal) (entity.RecalculationResult, error) {
	change := decimal.Zero
	var openingAmount *decimal.Decimal

	for _, trx := range trxs {
		delta, err := effectOf(trx)
		if err != nil {
			return entity.RecalculationResult{}, fmt.Errorf("transaction %s: %w", trx.ID, err)
		}

		if refValue(trx.AccountID) == account.ID {
			change = change.Add(delta.Source)
			if openingAmount == nil && isOpeningBalance(trx) && !delta.Source.IsZero() {
				amount := trx.Amount.Abs()
				openingAmount = &amount
			}
		}
		if refValue(trx.DestinationAccountID) == account.ID {
			change = change.Add(delta.Destination)
		}
	}

	initial := account.StartingBalance
	doubleCounted := false
	// liabilities may carry the starting balance with either sign
	if openingAmount != nil && !initial.IsZero() && initial.Abs().Sub(*openingAmount).Abs().LessThan(driftTolerance) {
		initial = decimal.Zero
		doubleCounted = true
	}

	calculated := initial.Add(change)
	if valuation != nil {
		calculated = *valuation
	}

	return entity.RecalculationResult{
		AccountID:          account.ID,
		CurrentBalance:     account.Balance,
		CalculatedBalance:  calculated,
		StartingBalance:    initial,
		TransactionsChange: change,
		Deviation:          calculated.Sub(account.Balance),
		WasDoubleCounted:   doubleCounted,
		ValuationBased:     valuation != nil,
		TransactionCount:   len(trxs),
	}, nil
}

// isOpeningBalance also accepts rows written before the kind column existed.
func isOpeningBalance(trx model.Transaction) bool {
	return trx.Kind == consts.KindOpeningBalance ||
		strings.EqualFold(strings.TrimSpace(trx.Description), consts.OpeningBalanceDescription)
}

// reconciliationSince bounds the rebuild to the start date unless the owner
// backfills history. Backfilled rows the mutator skipped then surface as
// deviation and are folded in by an applied recalculation.
func reconciliationSince(account model.Account) *time.Time {
	if guardsBackdating(account) && !account.TrackHistoricData {
		return account.StartDate
	}
	return nil
}

func (u *ledgerUsecase) getAccount(ownerID, accountID string) (model.Account, error) {
	account, err := u.dao.GetAccount(ownerID, accountID)
	if errors.Is(err, dao.ErrNotFound) {
		return model.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return account, err
}
