package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/radhian/ledger-engine/consts"
	"github.com/stretchr/testify/assert"
)

type stubRegistry struct {
	categories map[string]string
	err        error
}

func (s stubRegistry) LookupCategory(_ context.Context, typeName string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	c, ok := s.categories[typeName]
	return c, ok, nil
}

func TestClassifier_FallbackTable(t *testing.T) {
	c := NewClassifier(nil, DefaultClassification)
	ctx := context.Background()

	assert.Equal(t, consts.CategoryAsset, c.Category(ctx, "Savings"))
	assert.Equal(t, consts.CategoryLiability, c.Category(ctx, "credit_card"))
	assert.Equal(t, consts.CategoryLiability, c.Category(ctx, "Line-Of-Credit"))
	assert.Equal(t, consts.CategoryAsset, c.Category(ctx, "boat"))
}

func TestClassifier_RegistryWins(t *testing.T) {
	registry := stubRegistry{categories: map[string]string{
		"savings": consts.CategoryLiability,
		"loan":    "weird",
	}}
	c := NewClassifier(registry, DefaultClassification)
	ctx := context.Background()

	assert.Equal(t, consts.CategoryLiability, c.Category(ctx, "savings"))
	// invalid registry categories fall through to the table
	assert.Equal(t, consts.CategoryLiability, c.Category(ctx, "loan"))
}

func TestClassifier_RegistryErrorFallsBack(t *testing.T) {
	c := NewClassifier(stubRegistry{err: errors.New("db down")}, DefaultClassification)
	assert.Equal(t, consts.CategoryLiability, c.Category(context.Background(), "mortgage"))
}

func TestNormalizeAccountType(t *testing.T) {
	assert.Equal(t, "credit card", normalizeAccountType("  Credit_Card "))
	assert.Equal(t, "fixed deposit", normalizeAccountType("fixed-deposit"))
	assert.True(t, skipsOpeningTransaction("CREDIT CARD"))
	assert.True(t, isInvestmentType("Demat"))
	assert.False(t, isDematType("investment"))
}
