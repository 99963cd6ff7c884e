package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

// SetAccountBalance records a manual balance adjustment. The difference is
// booked as a system correction transaction so a later recalculation keeps it.
// Demat balances are overwritten as is until the next valuation sync.
func (u *ledgerUsecase) SetAccountBalance(ctx context.Context, ownerID, accountID string, balance decimal.Decimal, date time.Time) (*model.Account, error) {
	if date.IsZero() {
		date = u.clock()
	}
	date = date.UTC()

	var adjusted model.Account
	err := retryOnConflict("set balance", func(int) error {
		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			account, err := d.GetAccountForUpdate(ownerID, accountID)
			if errors.Is(err, dao.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
			}
			if err != nil {
				return err
			}

			target := roundToCurrency(balance, account.Currency)
			diff := target.Sub(account.Balance)
			if diff.IsZero() {
				adjusted = account
				return nil
			}

			if !isDematType(account.Type) {
				if err := d.CreateTransaction(correctionFor(account, diff, date)); err != nil {
					return err
				}
			}

			account.Balance = target
			if err := d.UpdateAccountBalanceIfVersion(account, account.Version); err != nil {
				return err
			}
			account.Version++
			adjusted = account

			return d.CreateAccountHistory(&model.AccountHistory{
				AccountID: account.ID,
				Balance:   account.Balance,
				Date:      date,
				Source:    consts.HistorySourceManual,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[SetBalance] owner %s account %s set to %s", ownerID, accountID, adjusted.Balance)
	return &adjusted, nil
}

func correctionFor(account model.Account, diff decimal.Decimal, date time.Time) *model.Transaction {
	trxType := consts.TransactionTypeIncome
	if diff.IsNegative() {
		trxType = consts.TransactionTypeExpense
	}
	// a correction dated before the start date would be ignored by recalculation
	if guardsBackdating(account) && date.Before(*account.StartDate) {
		date = *account.StartDate
	}

	accountID := account.ID
	return &model.Transaction{
		OwnerID:     account.OwnerID,
		Description: consts.BalanceAdjustmentDescription,
		Amount:      diff.Abs(),
		Date:        date,
		Type:        trxType,
		Status:      consts.StatusSettled,
		AccountID:   &accountID,
		Source:      consts.SourceSystem,
		Kind:        consts.KindSystemCorrection,
	}
}

// GetAccountHistory returns the balance time series of an owned account.
// Zero bounds are open.
func (u *ledgerUsecase) GetAccountHistory(_ context.Context, ownerID, accountID string, from, to time.Time) ([]model.AccountHistory, error) {
	if _, err := u.getAccount(ownerID, accountID); err != nil {
		return nil, err
	}
	return u.dao.ListAccountHistory(accountID, from, to)
}
