package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID                string          `gorm:"primary_key;size:36" json:"id"`
	OwnerID           string          `gorm:"size:64;not null;index" json:"owner_id"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	Type              string          `gorm:"size:50;not null" json:"type"`
	Currency          string          `gorm:"size:3;not null" json:"currency"`
	Balance           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance"`
	StartingBalance   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"starting_balance"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	TrackHistoricData bool            `gorm:"not null" json:"track_historic_data"`
	Version           int64           `gorm:"not null" json:"version"`
	CreateTime        int64           `gorm:"not null" json:"create_time"`
	UpdateTime        int64           `gorm:"not null" json:"update_time"`
}

func (Account) TableName() string { return "accounts" }
