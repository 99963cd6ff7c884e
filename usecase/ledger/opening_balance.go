package ledger

import (
	"context"
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

// CreateAccount persists a new account. A non-zero entered balance on an
// account that does not track historic data becomes a locked opening balance
// transaction so that the balance is explained by transactions alone.
func (u *ledgerUsecase) CreateAccount(ctx context.Context, ownerID string, req entity.NewAccount) (*entity.AccountCreation, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidAccount)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%w: name and type are required", ErrInvalidAccount)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = consts.DefaultCurrency
	}

	startDate := startOfDay(u.clock())
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	balance := roundToCurrency(req.Balance, currency)
	// reference data is read before the unit of work opens
	category := u.classifier.Category(ctx, req.Type)

	account := model.Account{
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(req.Name),
		Type:              normalizeAccountType(req.Type),
		Currency:          currency,
		StartDate:         &startDate,
		TrackHistoricData: req.TrackHistoricData,
	}

	var opening *model.Transaction
	if needsOpeningTransaction(account, balance.IsZero()) {
		trxType := consts.TransactionTypeIncome
		if category == consts.CategoryLiability {
			trxType = consts.TransactionTypeExpense
		}

		delta, err := CalculateDelta(trxType, balance.Abs())
		if err != nil {
			return nil, err
		}

		account.Balance = delta.Source
		account.StartingBalance = decimal.Zero
		opening = &model.Transaction{
			OwnerID:     ownerID,
			Description: consts.OpeningBalanceDescription,
			Amount:      balance.Abs(),
			Date:        startDate,
			Type:        trxType,
			Status:      consts.StatusSettled,
			Source:      consts.SourceSystem,
			Kind:        consts.KindOpeningBalance,
			Locked:      true,
		}
	} else {
		// liabilities are stored negative on every creation path
		if category == consts.CategoryLiability {
			balance = balance.Abs().Neg()
		}
		account.Balance = balance
		account.StartingBalance = balance
	}

	err := u.dao.RunInTransaction(ctx, func(d dao.DaoMethod) error {
		if err := d.CreateAccount(&account); err != nil {
			return err
		}

		if opening != nil {
			opening.AccountID = &account.ID
			if err := d.CreateTransaction(opening); err != nil {
				return err
			}
		}

		return d.CreateAccountHistory(&model.AccountHistory{
			AccountID: account.ID,
			Balance:   account.Balance,
			Date:      startDate,
			Source:    consts.HistorySourceInitial,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Infof("[CreateAccount] owner %s account %s (%s, %s) balance %s opening transaction %t",
		ownerID, account.ID, account.Type, category, account.Balance, opening != nil)

	return &entity.AccountCreation{Account: account, OpeningTransaction: opening}, nil
}

func needsOpeningTransaction(account model.Account, zeroBalance bool) bool {
	return !account.TrackHistoricData && !zeroBalance && !skipsOpeningTransaction(account.Type)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
