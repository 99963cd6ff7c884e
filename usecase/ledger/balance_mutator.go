package ledger

import (
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

// guardsBackdating reports whether the mutator ignores transactions dated
// before the account's start date.
func guardsBackdating(account model.Account) bool {
	return !isInvestmentType(account.Type) && account.StartDate != nil
}

// applyDelta adds delta to one account inside the caller's unit of work and
// appends a history point with the resulting balance. The sum is computed in
// decimal under the row lock so stores without a native decimal type never
// see float arithmetic.
func (u *ledgerUsecase) applyDelta(d dao.DaoMethod, ownerID string, accountID *string, delta decimal.Decimal, effectiveDate time.Time) error {
	if accountID == nil || *accountID == "" || delta.IsZero() {
		return nil
	}

	account, err := d.GetAccountForUpdate(ownerID, *accountID)
	if errors.Is(err, dao.ErrNotFound) {
		log.Warnf("[BalanceMutator] %v: %s, delta %s dropped", ErrAccountNotFound, *accountID, delta)
		return nil
	}
	if err != nil {
		return err
	}

	if guardsBackdating(account) && effectiveDate.Before(*account.StartDate) {
		log.Debugf("[BalanceMutator] account %s: %s predates start date %s, delta %s skipped",
			account.ID, effectiveDate.Format(time.RFC3339), account.StartDate.Format(time.RFC3339), delta)
		return nil
	}

	balance := roundToCurrency(account.Balance.Add(delta), account.Currency)
	if err := d.SetAccountBalance(account.ID, balance); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			log.Warnf("[BalanceMutator] %v: %s removed mid-update", ErrAccountNotFound, account.ID)
			return nil
		}
		return err
	}

	return d.CreateAccountHistory(&model.AccountHistory{
		AccountID: account.ID,
		Balance:   balance,
		Date:      effectiveDate.UTC(),
		Source:    consts.HistorySourceTransaction,
	})
}

// applyEffect moves the balances touched by trx. sign is +1 to apply and -1 to reverse.
func (u *ledgerUsecase) applyEffect(d dao.DaoMethod, trx model.Transaction, sign int) error {
	delta, err := effectOf(trx)
	if err != nil {
		return err
	}
	if sign < 0 {
		delta = delta.Neg()
	}

	if err := u.applyDelta(d, trx.OwnerID, trx.AccountID, delta.Source, trx.Date); err != nil {
		return err
	}
	return u.applyDelta(d, trx.OwnerID, trx.DestinationAccountID, delta.Destination, trx.Date)
}
