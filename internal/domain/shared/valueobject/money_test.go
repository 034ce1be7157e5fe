package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	assert.Equal(t, EUR, m.Currency())
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "")
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("123.45", USD)
	require.NoError(t, err)
	assert.Equal(t, "123.45", m.StringFixed(2))
	assert.Equal(t, USD, m.Currency())

	_, err = NewMoneyFromString("not-a-number", USD)
	assert.Error(t, err)
}

func TestNewMoneyEUR(t *testing.T) {
	m := NewMoneyEURFromFloat(42.42)
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.42)))
}

func TestZeroEUR(t *testing.T) {
	m := ZeroEUR()
	assert.True(t, m.IsZero())
	assert.Equal(t, EUR, m.Currency())
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyEURFromFloat(100)
	b := NewMoneyEURFromFloat(25.5)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "125.50", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "74.50", diff.StringFixed(2))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyEURFromFloat(100)
	b, _ := NewMoneyFromFloat(100, USD)

	_, err := a.Add(b)
	assert.Error(t, err)

	_, err = a.Subtract(b)
	assert.Error(t, err)
}

func TestMoney_MustAdd_Panics(t *testing.T) {
	a := NewMoneyEURFromFloat(1)
	b, _ := NewMoneyFromFloat(1, GBP)
	assert.Panics(t, func() { a.MustAdd(b) })
}

func TestMoney_Multiply(t *testing.T) {
	m := NewMoneyEURFromFloat(2.5)
	result := m.Multiply(decimal.NewFromInt(300))
	assert.Equal(t, "750.00", result.StringFixed(2))

	result = m.MultiplyByInt(4)
	assert.Equal(t, "10.00", result.StringFixed(2))
}

func TestMoney_Divide(t *testing.T) {
	m := NewMoneyEURFromFloat(100)

	half, err := m.Divide(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "50.00", half.StringFixed(2))

	_, err = m.Divide(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_NegateAbs(t *testing.T) {
	m := NewMoneyEURFromFloat(10)
	neg := m.Negate()
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.Abs().Equals(m))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyEURFromFloat(10)
	big := NewMoneyEURFromFloat(20)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	other, _ := NewMoneyFromFloat(10, PLN)
	_, err = small.LessThan(other)
	assert.Error(t, err)
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyEURFromFloat(10.555)
	assert.Equal(t, "10.56", m.Round(2).StringFixed(2))
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyEURFromFloat(99.9)
	assert.Equal(t, "99.90 EUR", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyEURFromFloat(123.45)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"123.45","currency":"EUR"}`, string(data))

	var parsed Money
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed.Equals(m))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("55.10"))
	assert.Equal(t, "55.10", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyEURFromFloat(200)
	pct := m.CalculatePercentage(decimal.NewFromInt(15))
	assert.Equal(t, "30.00", pct.StringFixed(2))
}

func TestMoney_ApplyDiscount(t *testing.T) {
	m := NewMoneyEURFromFloat(200)
	discounted := m.ApplyDiscount(decimal.NewFromInt(10))
	assert.Equal(t, "180.00", discounted.StringFixed(2))
}
