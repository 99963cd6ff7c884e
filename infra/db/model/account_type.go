package model

// AccountType is the reference-data registry entry classifying an account type name.
type AccountType struct {
	Name     string `gorm:"primary_key;size:50" json:"name"`
	Category string `gorm:"size:20;not null" json:"category"`
}

func (AccountType) TableName() string { return "account_types" }
