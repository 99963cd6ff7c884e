package ledger

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// driftTolerance is one cent: smaller differences are rounding noise.
var driftTolerance = decimal.New(1, -2)

func currencyFraction(code string) int32 {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

func roundToCurrency(v decimal.Decimal, code string) decimal.Decimal {
	return v.Round(currencyFraction(code))
}
