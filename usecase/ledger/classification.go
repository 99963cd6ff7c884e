package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/infra/db/dao"
)

// AccountTypeRegistry is the reference-data lookup for account type categories.
type AccountTypeRegistry interface {
	LookupCategory(ctx context.Context, typeName string) (category string, found bool, err error)
}

// DefaultClassification is the fallback used when the registry has no entry.
var DefaultClassification = map[string]string{
	"savings":        consts.CategoryAsset,
	"checking":       consts.CategoryAsset,
	"current":        consts.CategoryAsset,
	"bank":           consts.CategoryAsset,
	"cash":           consts.CategoryAsset,
	"wallet":         consts.CategoryAsset,
	"fixed deposit":  consts.CategoryAsset,
	"investment":     consts.CategoryAsset,
	"demat":          consts.CategoryAsset,
	"credit card":    consts.CategoryLiability,
	"loan":           consts.CategoryLiability,
	"mortgage":       consts.CategoryLiability,
	"line of credit": consts.CategoryLiability,
	"overdraft":      consts.CategoryLiability,
	"payable":        consts.CategoryLiability,
}

type Classifier struct {
	registry AccountTypeRegistry
	table    map[string]string
}

// NewClassifier consults registry first and falls back to table. Either may be nil.
func NewClassifier(registry AccountTypeRegistry, table map[string]string) *Classifier {
	normalized := make(map[string]string, len(table))
	for name, category := range table {
		normalized[normalizeAccountType(name)] = category
	}
	return &Classifier{registry: registry, table: normalized}
}

// Category returns asset or liability for an account type. Unknown types are assets.
func (c *Classifier) Category(ctx context.Context, typeName string) string {
	name := normalizeAccountType(typeName)

	if c.registry != nil {
		category, found, err := c.registry.LookupCategory(ctx, name)
		if err != nil {
			log.Warnf("[Classifier] registry lookup for %q failed, using fallback: %v", name, err)
		} else if found && validCategory(category) {
			return category
		}
	}

	if category, ok := c.table[name]; ok {
		return category
	}
	return consts.CategoryAsset
}

func validCategory(category string) bool {
	return category == consts.CategoryAsset || category == consts.CategoryLiability
}

func normalizeAccountType(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func isInvestmentType(typeName string) bool {
	switch normalizeAccountType(typeName) {
	case consts.AccountTypeInvestment, consts.AccountTypeDemat:
		return true
	}
	return false
}

func isDematType(typeName string) bool {
	return normalizeAccountType(typeName) == consts.AccountTypeDemat
}

// skipsOpeningTransaction lists types whose entered balance is not a plain
// starting cash position.
func skipsOpeningTransaction(typeName string) bool {
	switch normalizeAccountType(typeName) {
	case consts.AccountTypeCreditCard, consts.AccountTypeInvestment, consts.AccountTypeDemat:
		return true
	}
	return false
}

type daoTypeRegistry struct {
	dao dao.DaoMethod
}

func (r *daoTypeRegistry) LookupCategory(_ context.Context, typeName string) (string, bool, error) {
	accountType, err := r.dao.GetAccountTypeByName(typeName)
	if errors.Is(err, dao.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.ToLower(accountType.Category), true, nil
}
