package dao

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/radhian/ledger-engine/infra/db/model"
)

// CreateAccountHistory appends a snapshot. History rows are never updated.
func (d *dao) CreateAccountHistory(entry *model.AccountHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreateTime = nowNano()

	if err := d.db.Create(entry).Error; err != nil {
		return translateError(fmt.Errorf("failed to append history for account %s: %w", entry.AccountID, err))
	}
	return nil
}

// ListAccountHistory returns snapshots ordered by date then append order. Zero
// bounds are open.
func (d *dao) ListAccountHistory(accountID string, from, to time.Time) ([]model.AccountHistory, error) {
	q := d.db.Where("account_id = ?", accountID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to.UTC())
	}

	var entries []model.AccountHistory
	if err := q.Order("date ASC").Order("create_time ASC").Find(&entries).Error; err != nil {
		return nil, translateError(fmt.Errorf("failed to fetch history of account %s: %w", accountID, err))
	}
	return entries, nil
}
