package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

type DaoMethod interface {
	// RunInTransaction runs fn inside one database transaction. Calls made on
	// a DaoMethod that is already inside a transaction join it.
	RunInTransaction(ctx context.Context, fn func(d DaoMethod) error) error
	SupportsRowLock() bool

	CreateAccount(account *model.Account) error
	GetAccount(ownerID, accountID string) (model.Account, error)
	GetAccountForUpdate(ownerID, accountID string) (model.Account, error)
	SetAccountBalance(accountID string, balance decimal.Decimal) error
	UpdateAccountBalanceIfVersion(account model.Account, expectedVersion int64) error
	ListAccountsAfter(afterID string, limit int) ([]model.Account, error)

	CreateTransaction(trx *model.Transaction) error
	GetTransaction(ownerID, trxID string) (model.Transaction, error)
	SaveTransaction(trx *model.Transaction) error
	DeleteTransaction(ownerID, trxID string) error
	ListAccountTransactions(ownerID, accountID string, since *time.Time) ([]model.Transaction, error)

	CreateAccountHistory(entry *model.AccountHistory) error
	ListAccountHistory(accountID string, from, to time.Time) ([]model.AccountHistory, error)

	ListInvestmentsByAccountID(accountID string) ([]model.Investment, error)
	GetAccountTypeByName(name string) (model.AccountType, error)
}

type dao struct {
	db   *gorm.DB
	inTx bool
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}

func (d *dao) RunInTransaction(ctx context.Context, fn func(d DaoMethod) error) error {
	if d.inTx {
		return fn(d)
	}

	tx := d.db.BeginTx(ctx, &sql.TxOptions{})
	if tx.Error != nil {
		return translateError(fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(&dao{db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return translateError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	committed = true
	return nil
}

// SupportsRowLock reports whether SELECT ... FOR UPDATE is available. SQLite
// serializes writers at the database level instead.
func (d *dao) SupportsRowLock() bool {
	switch d.db.Dialect().GetName() {
	case "postgres":
		return true
	default:
		return false
	}
}

func nowNano() int64 {
	return time.Now().UnixNano()
}
