package ledger

import (
	"fmt"

	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

// Delta is the signed balance effect of one transaction on its source and
// destination accounts.
type Delta struct {
	Source      decimal.Decimal
	Destination decimal.Decimal
}

func (d Delta) Neg() Delta {
	return Delta{Source: d.Source.Neg(), Destination: d.Destination.Neg()}
}

// CalculateDelta is the only place that knows the sign convention of each
// transaction type.
func CalculateDelta(trxType string, amount decimal.Decimal) (Delta, error) {
	if amount.IsNegative() {
		return Delta{}, fmt.Errorf("%w: amount %s must be a non-negative magnitude", ErrInvalidTransaction, amount)
	}

	switch trxType {
	case consts.TransactionTypeIncome:
		return Delta{Source: amount, Destination: decimal.Zero}, nil
	case consts.TransactionTypeExpense:
		return Delta{Source: amount.Neg(), Destination: decimal.Zero}, nil
	case consts.TransactionTypeTransfer:
		return Delta{Source: amount.Neg(), Destination: amount}, nil
	default:
		return Delta{}, fmt.Errorf("%w: %q", ErrUnknownTransactionType, trxType)
	}
}

// effectOf is the delta a stored transaction contributes to balances. Only
// settled transactions move money.
func effectOf(trx model.Transaction) (Delta, error) {
	delta, err := CalculateDelta(trx.Type, trx.Amount)
	if err != nil {
		return Delta{}, err
	}
	if trx.Status != consts.StatusSettled {
		return Delta{Source: decimal.Zero, Destination: decimal.Zero}, nil
	}
	return delta, nil
}
