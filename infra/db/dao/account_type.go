package dao

import (
	"fmt"

	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/infra/db/model"
)

func (d *dao) GetAccountTypeByName(name string) (model.AccountType, error) {
	var accountType model.AccountType
	err := d.db.Where("name = ?", name).First(&accountType).Error
	if gorm.IsRecordNotFoundError(err) {
		return accountType, fmt.Errorf("account type %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return accountType, translateError(fmt.Errorf("failed to load account type %q: %w", name, err))
	}
	return accountType, nil
}
