package entity

import (
	"time"

	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

type NewAccount struct {
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Currency          string          `json:"currency"`
	Balance           decimal.Decimal `json:"balance"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	TrackHistoricData bool            `json:"track_historic_data"`
}

type AccountCreation struct {
	Account            model.Account      `json:"account"`
	OpeningTransaction *model.Transaction `json:"opening_transaction,omitempty"`
}

type NewTransaction struct {
	Description          string              `json:"description"`
	Amount               decimal.Decimal     `json:"amount"`
	Date                 time.Time           `json:"date"`
	Type                 string              `json:"type"`
	Status               string              `json:"status"`
	AccountID            *string             `json:"account_id,omitempty"`
	DestinationAccountID *string             `json:"destination_account_id,omitempty"`
	BudgetID             *string             `json:"budget_id,omitempty"`
	CategoryID           *string             `json:"category_id,omitempty"`
	Note                 string              `json:"note,omitempty"`
	Source               string              `json:"source,omitempty"`
	ExternalID           *string             `json:"external_id,omitempty"`
	Metadata             TransactionMetadata `json:"metadata"`
}

// TransactionPatch carries only the fields a caller wants to change.
type TransactionPatch struct {
	Description          *string          `json:"description,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	Date                 *time.Time       `json:"date,omitempty"`
	Type                 *string          `json:"type,omitempty"`
	Status               *string          `json:"status,omitempty"`
	AccountID            *string          `json:"account_id,omitempty"`
	DestinationAccountID *string          `json:"destination_account_id,omitempty"`
	BudgetID             *string          `json:"budget_id,omitempty"`
	CategoryID           *string          `json:"category_id,omitempty"`
	Note                 *string          `json:"note,omitempty"`
}

type Holding struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type RecalculationResult struct {
	AccountID          string          `json:"account_id"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	CalculatedBalance  decimal.Decimal `json:"calculated_balance"`
	StartingBalance    decimal.Decimal `json:"starting_balance"`
	TransactionsChange decimal.Decimal `json:"transactions_change"`
	Deviation          decimal.Decimal `json:"deviation"`
	WasDoubleCounted   bool            `json:"was_double_counted"`
	ValuationBased     bool            `json:"valuation_based"`
	TransactionCount   int             `json:"transaction_count"`
	DryRun             bool            `json:"dry_run"`
}

type AuditOptions struct {
	BatchSize   int
	AutoCorrect bool
}

type AuditReport struct {
	Scanned   int                   `json:"scanned"`
	Skipped   int                   `json:"skipped"`
	Failed    int                   `json:"failed"`
	Corrected int                   `json:"corrected"`
	Drifted   []RecalculationResult `json:"drifted"`
}
