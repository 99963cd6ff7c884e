package ledger

import (
	"context"
	"fmt"

	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/infra/db/dao"
	"github.com/radhian/ledger-engine/infra/db/model"
	"github.com/shopspring/decimal"
)

// HoldingsReader supplies the current positions of a valuation-based account.
type HoldingsReader interface {
	ListHoldings(ctx context.Context, accountID string) ([]entity.Holding, error)
}

type daoHoldingsReader struct {
	dao dao.DaoMethod
}

func (r *daoHoldingsReader) ListHoldings(_ context.Context, accountID string) ([]entity.Holding, error) {
	investments, err := r.dao.ListInvestmentsByAccountID(accountID)
	if err != nil {
		return nil, err
	}

	holdings := make([]entity.Holding, 0, len(investments))
	for _, inv := range investments {
		holdings = append(holdings, entity.Holding{
			Symbol:       inv.Symbol,
			Quantity:     inv.Quantity,
			CurrentPrice: inv.CurrentPrice,
		})
	}
	return holdings, nil
}

// valuationFor returns the market value of a demat account and nil for every
// other account type. It reads outside any unit of work.
func (u *ledgerUsecase) valuationFor(ctx context.Context, account model.Account) (*decimal.Decimal, error) {
	if !isDematType(account.Type) {
		return nil, nil
	}

	holdings, err := u.holdings.ListHoldings(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings of account %s: %w", account.ID, err)
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Quantity.Mul(h.CurrentPrice))
	}
	total = roundToCurrency(total, account.Currency)
	return &total, nil
}
