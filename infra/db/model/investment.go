package model

import "github.com/shopspring/decimal"

type Investment struct {
	ID           string          `gorm:"primary_key;size:36" json:"id"`
	AccountID    string          `gorm:"size:36;not null;index" json:"account_id"`
	Symbol       string          `gorm:"size:30;not null" json:"symbol"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"quantity"`
	BuyPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"buy_price"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"current_price"`
	UpdateTime   int64           `gorm:"not null" json:"update_time"`
}

func (Investment) TableName() string { return "investments" }
