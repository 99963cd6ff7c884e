package ledger

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/radhian/ledger-engine/infra/locker"
	"github.com/radhian/ledger-engine/infra/throttle"
	"github.com/shopspring/decimal"
)

type LedgerUsecase interface {
	CreateAccount(ctx context.Context, ownerID string, req entity.NewAccount) (*entity.AccountCreation, error)

	CreateTransaction(ctx context.Context, ownerID string, req entity.NewTransaction) (*model.Transaction, error)
	CreateTransactions(ctx context.Context, ownerID string, reqs []entity.NewTransaction) ([]model.Transaction, error)
	LoadSnapshot(ctx context.Context, ownerID, trxID string) (TransactionSnapshot, error)
	UpdateTransaction(ctx context.Context, ownerID, trxID string, patch entity.TransactionPatch, old TransactionSnapshot) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, trxID string, old TransactionSnapshot) error

	RecalculateAccountBalance(ctx context.Context, ownerID, accountID string, dryRun bool) (*entity.RecalculationResult, error)
	AuditDrift(ctx context.Context, opts entity.AuditOptions) (*entity.AuditReport, error)

	SyncHoldingsValuation(ctx context.Context, ownerID, accountID string) (*model.Account, error)
	SetAccountBalance(ctx context.Context, ownerID, accountID string, balance decimal.Decimal, date time.Time) (*model.Account, error)
	GetAccountHistory(ctx context.Context, ownerID, accountID string, from, to time.Time) ([]model.AccountHistory, error)
}

type ledgerUsecase struct {
	dao        dao.DaoMethod
	classifier *Classifier
	holdings   HoldingsReader
	locker     *locker.Locker
	throttle   *throttle.Throttle
	now        func() time.Time
}

type Option func(*ledgerUsecase)

// WithHoldingsReader replaces the default reader over the investments table.
func WithHoldingsReader(r HoldingsReader) Option {
	return func(u *ledgerUsecase) { u.holdings = r }
}

// WithClassifier replaces the registry-backed classifier.
func WithClassifier(c *Classifier) Option {
	return func(u *ledgerUsecase) { u.classifier = c }
}

func WithLocker(l *locker.Locker) Option {
	return func(u *ledgerUsecase) { u.locker = l }
}

func WithThrottle(t *throttle.Throttle) Option {
	return func(u *ledgerUsecase) { u.throttle = t }
}

func WithClock(now func() time.Time) Option {
	return func(u *ledgerUsecase) { u.now = now }
}

func NewLedgerUsecase(db *gorm.DB, opts ...Option) LedgerUsecase {
	d := dao.NewDaoMethod(db)
	u := &ledgerUsecase{
		dao:      d,
		holdings: &daoHoldingsReader{dao: d},
		locker:   locker.New(),
		throttle: throttle.New(consts.DefaultReconcilePerMin, consts.DefaultReconcileBurst),
		now:      time.Now,
	}
	u.classifier = NewClassifier(&daoTypeRegistry{dao: d}, DefaultClassification)

	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *ledgerUsecase) clock() time.Time {
	return u.now().UTC()
}
