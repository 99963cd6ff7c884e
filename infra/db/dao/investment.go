package dao

import (
	"fmt"

	"github.com/radhian/ledger-engine/infra/db/model"
)

func (d *dao) ListInvestmentsByAccountID(accountID string) ([]model.Investment, error) {
	var holdings []model.Investment
	if err := d.db.Where("account_id = ?", accountID).Order("symbol ASC").Find(&holdings).Error; err != nil {
		return nil, translateError(fmt.Errorf("failed to fetch investments of account %s: %w", accountID, err))
	}
	return holdings, nil
}
