package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/radhian/ledger-engine/infra/locker"
	"github.com/radhian/ledger-engine/infra/throttle"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDoubleCounted writes an account in the state older versions left
// behind: the entered balance stored as starting balance and also as an
// opening transaction.
func (f *fixture) seedDoubleCounted(t *testing.T, description, kind string) model.Account {
	t.Helper()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	acc := model.Account{
		OwnerID: owner, Name: "Legacy", Type: "savings", Currency: "USD",
		Balance: dec("2000"), StartingBalance: dec("1000"), StartDate: &start,
	}
	require.NoError(t, f.dao.CreateAccount(&acc))
	require.NoError(t, f.dao.CreateTransaction(&model.Transaction{
		OwnerID: owner, Description: description, Amount: dec("1000"), Date: start,
		Type: consts.TransactionTypeIncome, Status: consts.StatusSettled, AccountID: strPtr(acc.ID),
		Source: consts.SourceSystem, Kind: kind,
	}))
	return acc
}

func TestRecalculate_RepairsDoubleCount(t *testing.T) {
	f := newFixture(t)
	acc := f.seedDoubleCounted(t, consts.OpeningBalanceDescription, consts.KindOpeningBalance)

	preview, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, acc.ID, true)
	require.NoError(t, err)
	assert.True(t, preview.DryRun)
	assert.True(t, preview.WasDoubleCounted)
	assertMoney(t, "1000", preview.CalculatedBalance)
	assertMoney(t, "-1000", preview.Deviation)
	// dry run writes nothing
	assertMoney(t, "2000", f.balance(t, acc.ID))

	res, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, acc.ID, false)
	require.NoError(t, err)
	assert.False(t, res.DryRun)
	assert.True(t, res.WasDoubleCounted)
	assertMoney(t, "2000", res.CurrentBalance)
	assertMoney(t, "1000", res.CalculatedBalance)
	assertMoney(t, "0", res.StartingBalance)
	assertMoney(t, "1000", res.TransactionsChange)
	assert.Equal(t, 1, res.TransactionCount)

	stored, err := f.dao.GetAccount(owner, acc.ID)
	require.NoError(t, err)
	assertMoney(t, "1000", stored.Balance)
	assertMoney(t, "0", stored.StartingBalance)
	assert.Equal(t, acc.Version+1, stored.Version)

	history, err := f.ledger.GetAccountHistory(f.ctx, owner, acc.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, consts.HistorySourceRecalculation, history[0].Source)
	assertMoney(t, "1000", history[0].Balance)
}

func TestRecalculate_Idempotent(t *testing.T) {
	f := newFixture(t)
	acc := f.seedDoubleCounted(t, consts.OpeningBalanceDescription, consts.KindNormal)

	_, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, acc.ID, false)
	require.NoError(t, err)

	again, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, acc.ID, false)
	require.NoError(t, err)
	assert.False(t, again.WasDoubleCounted)
	assertMoney(t, "0", again.Deviation)
	assertMoney(t, "1000", f.balance(t, acc.ID))
}

func TestRecalculate_NotFound(t *testing.T) {
	f := newFixture(t)
	savings := f.createAccount(t, "Savings", "savings", "10")

	_, err := f.ledger.RecalculateAccountBalance(f.ctx, "user-2", savings.ID, false)
	assert.True(t, errors.Is(err, ErrAccountNotFound), "got %v", err)

	_, err = f.ledger.RecalculateAccountBalance(f.ctx, owner, "missing", true)
	assert.True(t, errors.Is(err, ErrAccountNotFound), "got %v", err)
}

func TestRecalculate_FixesDrift(t *testing.T) {
	f := newFixture(t)
	savings := f.createAccount(t, "Savings", "savings", "1000")
	f.expense(t, savings.ID, "120")

	// simulate a lost update
	require.NoError(t, f.dao.SetAccountBalance(savings.ID, dec("913.33")))

	res, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, false)
	require.NoError(t, err)
	assert.False(t, res.WasDoubleCounted)
	assertMoney(t, "-33.33", res.Deviation)
	assertMoney(t, "880", f.balance(t, savings.ID))
}

func TestRecalculate_Throttled(t *testing.T) {
	f := newFixture(t, WithThrottle(throttle.New(1, 1)))
	savings := f.createAccount(t, "Savings", "savings", "10")

	_, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, true)
	require.NoError(t, err)

	_, err = f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, true)
	assert.True(t, errors.Is(err, ErrReconciliationThrottled))
}

func TestRecalculate_InProgress(t *testing.T) {
	l := locker.New()
	f := newFixture(t, WithLocker(l))
	savings := f.createAccount(t, "Savings", "savings", "10")

	require.True(t, l.TryLock(savings.ID))
	_, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, false)
	assert.True(t, errors.Is(err, ErrReconciliationInProgress))

	l.Unlock(savings.ID)
	_, err = f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, false)
	require.NoError(t, err)
	assert.True(t, l.TryLock(savings.ID), "lock released after the run")
}

func TestRecalculate_UnknownTypeInStore(t *testing.T) {
	f := newFixture(t)
	savings := f.createAccount(t, "Savings", "savings", "10")
	require.NoError(t, f.dao.CreateTransaction(&model.Transaction{
		OwnerID: owner, Description: "corrupt", Amount: dec("1"), Date: testNow, Type: "refund",
		Status: consts.StatusSettled, AccountID: strPtr(savings.ID), Source: consts.SourceUser, Kind: consts.KindNormal,
	}))

	_, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, savings.ID, false)
	assert.True(t, errors.Is(err, ErrUnknownTransactionType))
	assertMoney(t, "10", f.balance(t, savings.ID))
}

func TestComputeRecalculation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	acc := model.Account{ID: "acc", Type: "loan", StartingBalance: dec("-500"), Balance: dec("-700"), StartDate: &start}
	trx := func(trxType, amount, desc string, src, dst *string) model.Transaction {
		return model.Transaction{ID: desc, Description: desc, Type: trxType, Amount: dec(amount),
			Status: consts.StatusSettled, AccountID: src, DestinationAccountID: dst, Kind: consts.KindNormal}
	}

	t.Run("liability opening is matched by magnitude", func(t *testing.T) {
		res, err := computeRecalculation(acc, []model.Transaction{
			trx("expense", "500", "Opening Balance", strPtr("acc"), nil),
			trx("expense", "200", "interest", strPtr("acc"), nil),
		}, nil)
		require.NoError(t, err)
		assert.True(t, res.WasDoubleCounted)
		assertMoney(t, "-700", res.CalculatedBalance)
		assertMoney(t, "0", res.Deviation)
	})

	t.Run("legacy positive liability starting balance", func(t *testing.T) {
		legacy := acc
		legacy.StartingBalance = dec("500")
		legacy.Balance = dec("0")
		res, err := computeRecalculation(legacy, []model.Transaction{
			trx("expense", "500", "Opening Balance", strPtr("acc"), nil),
		}, nil)
		require.NoError(t, err)
		assert.True(t, res.WasDoubleCounted)
		assertMoney(t, "0", res.StartingBalance)
		assertMoney(t, "-500", res.CalculatedBalance)
	})

	t.Run("transfers count on both sides", func(t *testing.T) {
		res, err := computeRecalculation(acc, []model.Transaction{
			trx("transfer", "100", "payment", strPtr("checking"), strPtr("acc")),
			trx("transfer", "40", "refund", strPtr("acc"), strPtr("checking")),
		}, nil)
		require.NoError(t, err)
		assert.False(t, res.WasDoubleCounted)
		assertMoney(t, "60", res.TransactionsChange)
		assertMoney(t, "-440", res.CalculatedBalance)
	})

	t.Run("near miss is not a double count", func(t *testing.T) {
		res, err := computeRecalculation(acc, []model.Transaction{
			trx("expense", "500.02", "Opening Balance", strPtr("acc"), nil),
		}, nil)
		require.NoError(t, err)
		assert.False(t, res.WasDoubleCounted)
	})

	t.Run("valuation overrides transactions", func(t *testing.T) {
		v := dec("1234.56")
		res, err := computeRecalculation(acc, []model.Transaction{trx("income", "9", "x", strPtr("acc"), nil)}, &v)
		require.NoError(t, err)
		assert.True(t, res.ValuationBased)
		assertMoney(t, "1234.56", res.CalculatedBalance)
	})
}

func TestDematValuation(t *testing.T) {
	f := newFixture(t)
	demat := f.createAccount(t, "Broker", "Demat", "0")
	require.NoError(t, f.conn.Create(&model.Investment{
		ID: "inv-1", AccountID: demat.ID, Symbol: "INFY", Quantity: dec("10"), BuyPrice: dec("1500"), CurrentPrice: dec("2700.5"),
	}).Error)
	require.NoError(t, f.conn.Create(&model.Investment{
		ID: "inv-2", AccountID: demat.ID, Symbol: "TCS", Quantity: dec("3"), BuyPrice: dec("90"), CurrentPrice: dec("100"),
	}).Error)

	res, err := f.ledger.RecalculateAccountBalance(f.ctx, owner, demat.ID, true)
	require.NoError(t, err)
	assert.True(t, res.ValuationBased)
	assertMoney(t, "27305", res.CalculatedBalance)

	acc, err := f.ledger.SyncHoldingsValuation(f.ctx, owner, demat.ID)
	require.NoError(t, err)
	assertMoney(t, "27305", acc.Balance)
	assertMoney(t, "27305", f.balance(t, demat.ID))

	history, err := f.ledger.GetAccountHistory(f.ctx, owner, demat.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, consts.HistorySourceInvestment, history[1].Source)

	// unchanged valuation appends nothing
	_, err = f.ledger.SyncHoldingsValuation(f.ctx, owner, demat.ID)
	require.NoError(t, err)
	history, err = f.ledger.GetAccountHistory(f.ctx, owner, demat.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	f.assertReconciled(t, demat.ID)
}

type fakeHoldings map[string][]entity.Holding

func (f fakeHoldings) ListHoldings(_ context.Context, accountID string) ([]entity.Holding, error) {
	return f[accountID], nil
}

func TestSyncHoldingsValuation_Reader(t *testing.T) {
	holdings := fakeHoldings{}
	f := newFixture(t, WithHoldingsReader(holdings))
	demat := f.createAccount(t, "Broker", "demat", "0")
	savings := f.createAccount(t, "Savings", "savings", "100")

	holdings[demat.ID] = []entity.Holding{{Symbol: "AAPL", Quantity: dec("1.5"), CurrentPrice: dec("200.333")}}
	acc, err := f.ledger.SyncHoldingsValuation(f.ctx, owner, demat.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.5", acc.Balance.String())

	_, err = f.ledger.SyncHoldingsValuation(f.ctx, owner, savings.ID)
	assert.True(t, errors.Is(err, ErrNotValuationAccount))

	_, err = f.ledger.SyncHoldingsValuation(f.ctx, owner, "missing")
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

// TestRandomOperationsStayReconciled drives a seeded mix of creates, updates
// and deletes and checks that recalculation agrees with the stored balances.
func TestRandomOperationsStayReconciled(t *testing.T) {
	f := newFixture(t)
	accounts := []model.Account{
		f.createAccount(t, "Savings", "savings", "1000"),
		f.createAccount(t, "Cash", "cash", "250"),
		f.createAccount(t, "Visa", "credit card", "-40"),
	}
	types := []string{consts.TransactionTypeIncome, consts.TransactionTypeExpense, consts.TransactionTypeTransfer}
	statuses := []string{consts.StatusSettled, consts.StatusSettled, consts.StatusUnsettled}
	rng := rand.New(rand.NewSource(42))

	var live []model.Transaction
	randomRequest := func() entity.NewTransaction {
		src := rng.Intn(len(accounts))
		req := entity.NewTransaction{
			Description: "random",
			Amount:      decimal.New(int64(rng.Intn(100000)), -2),
			Date:        testNow.Add(-time.Duration(rng.Intn(72)) * time.Hour),
			Type:        types[rng.Intn(len(types))],
			Status:      statuses[rng.Intn(len(statuses))],
			AccountID:   strPtr(accounts[src].ID),
		}
		if req.Type == consts.TransactionTypeTransfer {
			req.DestinationAccountID = strPtr(accounts[(src+1+rng.Intn(len(accounts)-1))%len(accounts)].ID)
		}
		return req
	}

	for i := 0; i < 60; i++ {
		switch op := rng.Intn(4); {
		case op < 2 || len(live) == 0:
			trx, err := f.ledger.CreateTransaction(f.ctx, owner, randomRequest())
			require.NoError(t, err)
			live = append(live, *trx)
		case op == 2:
			idx := rng.Intn(len(live))
			next := randomRequest()
			updated, err := f.ledger.UpdateTransaction(f.ctx, owner, live[idx].ID, entity.TransactionPatch{
				Amount:               &next.Amount,
				Date:                 &next.Date,
				Type:                 &next.Type,
				Status:               &next.Status,
				AccountID:            next.AccountID,
				DestinationAccountID: strPtr(refValue(next.DestinationAccountID)),
			}, NewSnapshot(live[idx]))
			require.NoError(t, err)
			live[idx] = *updated
		default:
			idx := rng.Intn(len(live))
			require.NoError(t, f.ledger.DeleteTransaction(f.ctx, owner, live[idx].ID, NewSnapshot(live[idx])))
			live = append(live[:idx], live[idx+1:]...)
		}
	}

	for _, acc := range accounts {
		f.assertReconciled(t, acc.ID)
	}
}
