package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountHistory rows are append-only snapshots of an account balance.
type AccountHistory struct {
	ID         string          `gorm:"primary_key;size:36" json:"id"`
	AccountID  string          `gorm:"size:36;not null;index" json:"account_id"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Source     string          `gorm:"size:20;not null" json:"source"`
	CreateTime int64           `gorm:"not null" json:"create_time"`
}

func (AccountHistory) TableName() string { return "account_history" }
