package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/radhian/ledger-engine/entity"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest accepts the producer metadata blob as raw JSON.
type CreateTransactionRequest struct {
	entity.NewTransaction
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

func (r CreateTransactionRequest) toEntity() (entity.NewTransaction, error) {
	req := r.NewTransaction
	meta, err := entity.ParseTransactionMetadata(r.Metadata)
	if err != nil {
		return req, err
	}
	req.Metadata = meta
	return req, nil
}

type BulkCreateTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions"`
}

type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance"`
	Date    *time.Time       `json:"date,omitempty"`
}

const dateLayout = "2006-01-02"

// parseDateRange turns optional YYYY-MM-DD bounds into an inclusive UTC range.
// Empty bounds stay zero.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time

	if fromStr != "" {
		d, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date format: %v", err)
		}
		from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}

	if toStr != "" {
		d, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date format: %v", err)
		}
		to = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, time.UTC)
	}

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("to date must not be before from date")
	}
	return from, to, nil
}
