package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
)

// SyncHoldingsValuation sets a demat account balance to the market value of
// its holdings.
func (u *ledgerUsecase) SyncHoldingsValuation(ctx context.Context, ownerID, accountID string) (*model.Account, error) {
	var synced model.Account
	err := retryOnConflict("sync valuation", func(int) error {
		pre, err := u.getAccount(ownerID, accountID)
		if err != nil {
			return err
		}
		valuation, err := u.valuationFor(ctx, pre)
		if err != nil {
			return err
		}
		if valuation == nil {
			return fmt.Errorf("%w: %s is a %s account", ErrNotValuationAccount, accountID, pre.Type)
		}

		return u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
			account, err := d.GetAccountForUpdate(ownerID, accountID)
			if errors.Is(err, dao.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
			}
			if err != nil {
				return err
			}
			if account.Balance.Equal(*valuation) {
				synced = account
				return nil
			}

			account.Balance = *valuation
			if err := d.UpdateAccountBalanceIfVersion(account, account.Version); err != nil {
				return err
			}
			account.Version++
			synced = account

			return d.CreateAccountHistory(&model.AccountHistory{
				AccountID: account.ID,
				Balance:   account.Balance,
				Date:      u.clock(),
				Source:    consts.HistorySourceInvestment,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Valuation] account %s valued at %s %s", accountID, synced.Balance, synced.Currency)
	return &synced, nil
}
