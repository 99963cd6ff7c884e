package dao

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

func (d *dao) CreateAccount(account *model.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := nowNano()
	account.CreateTime = now
	account.UpdateTime = now

	if err := d.db.Create(account).Error; err != nil {
		return translateError(fmt.Errorf("failed to create account: %w", err))
	}
	return nil
}

func (d *dao) GetAccount(ownerID, accountID string) (model.Account, error) {
	return d.findAccount(d.db, ownerID, accountID)
}

// GetAccountForUpdate loads the account and, where the dialect allows it,
// holds its row lock until the surrounding transaction ends.
func (d *dao) GetAccountForUpdate(ownerID, accountID string) (model.Account, error) {
	q := d.db
	if d.SupportsRowLock() {
		q = q.Set("gorm:query_option", "FOR UPDATE")
	}
	return d.findAccount(q, ownerID, accountID)
}

func (d *dao) findAccount(q *gorm.DB, ownerID, accountID string) (model.Account, error) {
	var account model.Account
	err := q.Where("id = ? AND owner_id = ?", accountID, ownerID).First(&account).Error
	if gorm.IsRecordNotFoundError(err) {
		return account, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return account, translateError(fmt.Errorf("failed to load account %s: %w", accountID, err))
	}
	return account, nil
}

// SetAccountBalance writes a balance computed by the caller. Callers hold the
// row through GetAccountForUpdate in the same transaction.
func (d *dao) SetAccountBalance(accountID string, balance decimal.Decimal) error {
	res := d.db.Model(&model.Account{}).
		Where("id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"balance":     balance,
			"version":     gorm.Expr("version + 1"),
			"update_time": nowNano(),
		})
	if res.Error != nil {
		return translateError(fmt.Errorf("failed to set balance of account %s: %w", accountID, res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}

// UpdateAccountBalanceIfVersion overwrites balance and starting balance only if
// nobody wrote the row since it was read at expectedVersion.
func (d *dao) UpdateAccountBalanceIfVersion(account model.Account, expectedVersion int64) error {
	res := d.db.Model(&model.Account{}).
		Where("id = ? AND version = ?", account.ID, expectedVersion).
		UpdateColumns(map[string]interface{}{
			"balance":          account.Balance,
			"starting_balance": account.StartingBalance,
			"version":          expectedVersion + 1,
			"update_time":      nowNano(),
		})
	if res.Error != nil {
		return translateError(fmt.Errorf("failed to overwrite balance of account %s: %w", account.ID, res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s changed since version %d: %w", account.ID, expectedVersion, ErrConcurrencyConflict)
	}
	return nil
}

func (d *dao) ListAccountsAfter(afterID string, limit int) ([]model.Account, error) {
	var accounts []model.Account
	if err := d.db.
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&accounts).Error; err != nil {
		return nil, translateError(fmt.Errorf("failed to list accounts: %w", err))
	}
	return accounts, nil
}
