package ledger

import (
	"context"
	"testing"

	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/locker"
	"github.com/radhian/ledger-engine/infra/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditDrift_ReportsOnly(t *testing.T) {
	f := newFixture(t)
	healthy := f.createAccount(t, "Savings", "savings", "1000")
	drifted := f.createAccount(t, "Cash", "cash", "200")
	f.createAccount(t, "Wallet", "wallet", "5")
	require.NoError(t, f.dao.SetAccountBalance(drifted.ID, dec("187.5")))

	report, err := f.ledger.AuditDrift(f.ctx, entity.AuditOptions{BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 0, report.Corrected)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, drifted.ID, report.Drifted[0].AccountID)
	assert.True(t, report.Drifted[0].DryRun)
	assertMoney(t, "12.5", report.Drifted[0].Deviation)

	assertMoney(t, "187.5", f.balance(t, drifted.ID))
	assertMoney(t, "1000", f.balance(t, healthy.ID))
}

func TestAuditDrift_AutoCorrect(t *testing.T) {
	// audits bypass the per-account throttle
	f := newFixture(t, WithThrottle(throttle.New(1, 1)))
	drifted := f.createAccount(t, "Cash", "cash", "200")
	require.NoError(t, f.dao.SetAccountBalance(drifted.ID, dec("240")))

	report, err := f.ledger.AuditDrift(f.ctx, entity.AuditOptions{AutoCorrect: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Corrected)
	require.Len(t, report.Drifted, 1)
	assert.False(t, report.Drifted[0].DryRun)
	assertMoney(t, "200", f.balance(t, drifted.ID))

	report, err = f.ledger.AuditDrift(f.ctx, entity.AuditOptions{AutoCorrect: true})
	require.NoError(t, err)
	assert.Empty(t, report.Drifted)
}

func TestAuditDrift_SkipsAccountsInProgress(t *testing.T) {
	l := locker.New()
	f := newFixture(t, WithLocker(l))
	busy := f.createAccount(t, "Savings", "savings", "10")
	f.createAccount(t, "Cash", "cash", "10")

	require.True(t, l.TryLock(busy.ID))
	defer l.Unlock(busy.ID)

	report, err := f.ledger.AuditDrift(f.ctx, entity.AuditOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Skipped)
}

func TestAuditDrift_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "Savings", "savings", "10")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.ledger.AuditDrift(ctx, entity.AuditOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Scanned)
}
