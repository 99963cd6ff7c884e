package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                   string          `gorm:"primary_key;size:36" json:"id"`
	OwnerID              string          `gorm:"size:64;not null;index;unique_index:idx_transactions_owner_external" json:"owner_id"`
	Description          string          `gorm:"size:500;not null" json:"description"`
	Amount               decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date                 time.Time       `gorm:"not null;index" json:"date"`
	Type                 string          `gorm:"size:20;not null" json:"type"`
	Status               string          `gorm:"size:20;not null" json:"status"`
	AccountID            *string         `gorm:"size:36;index" json:"account_id,omitempty"`
	DestinationAccountID *string         `gorm:"size:36;index" json:"destination_account_id,omitempty"`
	BudgetID             *string         `gorm:"size:36" json:"budget_id,omitempty"`
	CategoryID           *string         `gorm:"size:36" json:"category_id,omitempty"`
	Note                 string          `gorm:"type:text" json:"note,omitempty"`
	Source               string          `gorm:"size:50;not null" json:"source"`
	ExternalID           *string         `gorm:"size:200;unique_index:idx_transactions_owner_external" json:"external_id,omitempty"`
	Kind                 string          `gorm:"size:30;not null" json:"kind"`
	Locked               bool            `gorm:"not null" json:"locked"`
	CreateTime           int64           `gorm:"not null" json:"create_time"`
	UpdateTime           int64           `gorm:"not null" json:"update_time"`
}

func (Transaction) TableName() string { return "transactions" }
