package dao

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/infra/db/model"
)

func (d *dao) CreateTransaction(trx *model.Transaction) error {
	if trx.ID == "" {
		trx.ID = uuid.New().String()
	}
	now := nowNano()
	trx.CreateTime = now
	trx.UpdateTime = now

	if err := d.db.Create(trx).Error; err != nil {
		return translateError(fmt.Errorf("failed to create transaction: %w", err))
	}
	return nil
}

func (d *dao) GetTransaction(ownerID, trxID string) (model.Transaction, error) {
	var trx model.Transaction
	err := d.db.Where("id = ? AND owner_id = ?", trxID, ownerID).First(&trx).Error
	if gorm.IsRecordNotFoundError(err) {
		return trx, fmt.Errorf("transaction %s: %w", trxID, ErrNotFound)
	}
	if err != nil {
		return trx, translateError(fmt.Errorf("failed to load transaction %s: %w", trxID, err))
	}
	return trx, nil
}

func (d *dao) SaveTransaction(trx *model.Transaction) error {
	trx.UpdateTime = nowNano()
	if err := d.db.Save(trx).Error; err != nil {
		return translateError(fmt.Errorf("failed to update transaction %s: %w", trx.ID, err))
	}
	return nil
}

func (d *dao) DeleteTransaction(ownerID, trxID string) error {
	res := d.db.Where("id = ? AND owner_id = ?", trxID, ownerID).Delete(&model.Transaction{})
	if res.Error != nil {
		return translateError(fmt.Errorf("failed to delete transaction %s: %w", trxID, res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", trxID, ErrNotFound)
	}
	return nil
}

// ListAccountTransactions returns every transaction where the account is the
// source or the destination, oldest first.
func (d *dao) ListAccountTransactions(ownerID, accountID string, since *time.Time) ([]model.Transaction, error) {
	q := d.db.Where("owner_id = ? AND (account_id = ? OR destination_account_id = ?)", ownerID, accountID, accountID)
	if since != nil {
		q = q.Where("date >= ?", since.UTC())
	}

	var list []model.Transaction
	if err := q.Order("date ASC").Order("create_time ASC").Find(&list).Error; err != nil {
		return nil, translateError(fmt.Errorf("failed to list transactions of account %s: %w", accountID, err))
	}
	return list, nil
}
