package ledger

import (
	"errors"
	"testing"

	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDelta(t *testing.T) {
	amount := decimal.RequireFromString("125.50")

	tests := []struct {
		name        string
		trxType     string
		source      string
		destination string
		err         error
	}{
		{name: "income adds to source", trxType: consts.TransactionTypeIncome, source: "125.50", destination: "0.00"},
		{name: "expense subtracts from source", trxType: consts.TransactionTypeExpense, source: "-125.50", destination: "0.00"},
		{name: "transfer moves money", trxType: consts.TransactionTypeTransfer, source: "-125.50", destination: "125.50"},
		{name: "unknown type", trxType: "refund", err: ErrUnknownTransactionType},
		{name: "empty type", trxType: "", err: ErrUnknownTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, err := CalculateDelta(tt.trxType, amount)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, delta.Source.StringFixed(2))
			assert.Equal(t, tt.destination, delta.Destination.StringFixed(2))
		})
	}
}

func TestCalculateDelta_NegativeAmount(t *testing.T) {
	_, err := CalculateDelta(consts.TransactionTypeIncome, decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, ErrInvalidTransaction))
}

func TestDelta_NegIsInverse(t *testing.T) {
	delta, err := CalculateDelta(consts.TransactionTypeTransfer, decimal.NewFromInt(40))
	require.NoError(t, err)

	back := delta.Neg()
	assert.True(t, delta.Source.Add(back.Source).IsZero())
	assert.True(t, delta.Destination.Add(back.Destination).IsZero())
}

func TestEffectOf_OnlySettledMovesMoney(t *testing.T) {
	trx := model.Transaction{Type: consts.TransactionTypeExpense, Amount: decimal.NewFromInt(30), Status: consts.StatusUnsettled}

	delta, err := effectOf(trx)
	require.NoError(t, err)
	assert.True(t, delta.Source.IsZero())

	trx.Status = consts.StatusSettled
	delta, err = effectOf(trx)
	require.NoError(t, err)
	assert.Equal(t, "-30.00", delta.Source.StringFixed(2))

	trx.Type = "bogus"
	trx.Status = consts.StatusUnsettled
	_, err = effectOf(trx)
	assert.True(t, errors.Is(err, ErrUnknownTransactionType))
}

func TestRoundToCurrency(t *testing.T) {
	v := decimal.RequireFromString("1234.5678")
	assert.Equal(t, "1234.57", roundToCurrency(v, "USD").String())
	assert.Equal(t, "1235", roundToCurrency(v, "JPY").String())
	assert.Equal(t, "1234.568", roundToCurrency(v, "KWD").String())
	assert.Equal(t, "1234.57", roundToCurrency(v, "").String())
	assert.Equal(t, "1234.57", roundToCurrency(v, "XXZ").String())
}
