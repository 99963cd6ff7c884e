package consts

const (
	// Transaction types
	TransactionTypeIncome   = "income"
	TransactionTypeExpense  = "expense"
	TransactionTypeTransfer = "transfer"

	// Transaction status codes
	StatusSettled   = "settled"
	StatusUnsettled = "unsettled"

	// Transaction kinds, decoded once from producer metadata
	KindNormal           = "normal"
	KindOpeningBalance   = "opening_balance"
	KindSystemCorrection = "system_correction"

	// Transaction sources
	SourceUser   = "User"
	SourceSystem = "System"

	OpeningBalanceDescription    = "Opening Balance"
	BalanceAdjustmentDescription = "Balance Adjustment"

	// AccountHistory sources
	HistorySourceInitial       = "initial"
	HistorySourceTransaction   = "transaction"
	HistorySourceManual        = "manual"
	HistorySourceInvestment    = "investment"
	HistorySourceRecalculation = "recalculation"

	// Account categories
	CategoryAsset     = "asset"
	CategoryLiability = "liability"

	// Account type names with special balance rules
	AccountTypeCreditCard = "credit card"
	AccountTypeInvestment = "investment"
	AccountTypeDemat      = "demat"

	// Default config
	DefaultCurrency        = "USD"
	DefaultBatchSize       = 1000
	DefaultWorkerNumber    = 1
	DefaultIntervalInSec   = 3600
	DefaultReconcilePerMin = 6
	DefaultReconcileBurst  = 2
)
