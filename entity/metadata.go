package entity

import (
	"encoding/json"
	"fmt"

	"github.com/radhian/ledger-engine/consts"
)

// TransactionMetadata is the loosely typed flag blob producers attach to a
// transaction. It is decoded once here and stored as a kind.
type TransactionMetadata struct {
	IsOpeningBalance   bool `json:"isOpeningBalance,omitempty"`
	IsSystemCorrection bool `json:"isSystemCorrection,omitempty"`
	Locked             bool `json:"locked,omitempty"`
}

// ParseTransactionMetadata decodes a raw metadata blob. An empty blob is normal.
func ParseTransactionMetadata(raw []byte) (TransactionMetadata, error) {
	var m TransactionMetadata
	if len(raw) == 0 || string(raw) == "null" {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("failed to parse transaction metadata: %w", err)
	}
	return m, nil
}

func (m TransactionMetadata) Kind() string {
	switch {
	case m.IsOpeningBalance:
		return consts.KindOpeningBalance
	case m.IsSystemCorrection:
		return consts.KindSystemCorrection
	default:
		return consts.KindNormal
	}
}

// IsLocked reports the stored lock flag; opening balances are always locked.
func (m TransactionMetadata) IsLocked() bool {
	return m.Locked || m.IsOpeningBalance
}
