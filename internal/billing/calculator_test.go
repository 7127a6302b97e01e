package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

func TestLineItemAmount_HoursOnly(t *testing.T) {
	amount, err := LineItemAmount(money.MoneyFromFloat(150), money.HoursFromFloat(5), money.HoursFromFloat(0))

	require.NoError(t, err)
	assert.Equal(t, "750.00", amount.String())
}

func TestLineItemAmount_HoursAndQuantityShareRate(t *testing.T) {
	// rate 100 × (2 hours + 1 unit) = 300
	amount, err := LineItemAmount(money.MoneyFromFloat(100), money.HoursFromFloat(2), money.HoursFromFloat(1))

	require.NoError(t, err)
	assert.Equal(t, "300.00", amount.String())
}

func TestLineItemAmount_ZeroYieldsZero(t *testing.T) {
	amount, err := LineItemAmount(money.MoneyFromFloat(0), money.HoursFromFloat(0), money.HoursFromFloat(0))

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestLineItemAmount_RoundsHalfUp(t *testing.T) {
	// 33.335 rounds up to 33.34 at currency precision
	rate, err := money.MoneyFromString("13.334")
	require.NoError(t, err)
	hours, err := money.HoursFromString("2.5")
	require.NoError(t, err)

	amount, err := LineItemAmount(rate, hours, money.HoursFromFloat(0))

	require.NoError(t, err)
	assert.Equal(t, "33.34", amount.String())
}

func TestLineItemAmount_RejectsNegativeInput(t *testing.T) {
	cases := []struct {
		name  string
		rate  float64
		hours float64
		qty   float64
	}{
		{"negative rate", -1, 1, 0},
		{"negative hours", 100, -0.5, 0},
		{"negative quantity", 100, 0, -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LineItemAmount(money.MoneyFromFloat(tc.rate), money.HoursFromFloat(tc.hours), money.HoursFromFloat(tc.qty))
			assert.ErrorIs(t, err, ErrInvalidLineItem)
		})
	}
}

func TestComputeTotals_NoTax(t *testing.T) {
	totals, err := ComputeTotals([]money.Money{money.MoneyFromFloat(750)}, decimal.Zero)

	require.NoError(t, err)
	assert.Equal(t, "750.00", totals.Subtotal.String())
	assert.Equal(t, "0.00", totals.TaxAmount.String())
	assert.Equal(t, "750.00", totals.Total.String())
}

func TestComputeTotals_TenPercent(t *testing.T) {
	totals, err := ComputeTotals([]money.Money{money.MoneyFromFloat(300)}, decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.Equal(t, "300.00", totals.Subtotal.String())
	assert.Equal(t, "30.00", totals.TaxAmount.String())
	assert.Equal(t, "330.00", totals.Total.String())
}

func TestComputeTotals_MultipleLineItems(t *testing.T) {
	amounts := []money.Money{
		money.MoneyFromFloat(100.5),
		money.MoneyFromFloat(200.25),
		money.MoneyFromFloat(0),
	}
	totals, err := ComputeTotals(amounts, decimal.NewFromInt(5))

	require.NoError(t, err)
	assert.Equal(t, "300.75", totals.Subtotal.String())
	assert.Equal(t, "15.04", totals.TaxAmount.String())
	assert.Equal(t, "315.79", totals.Total.String())
}

func TestComputeTotals_EmptyInvoiceRejected(t *testing.T) {
	_, err := ComputeTotals(nil, decimal.Zero)
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestComputeTotals_TaxRateOutOfRange(t *testing.T) {
	amounts := []money.Money{money.MoneyFromFloat(100)}

	_, err := ComputeTotals(amounts, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	_, err = ComputeTotals(amounts, decimal.NewFromFloat(100.01))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}

func TestComputeTotals_BoundaryRatesAllowed(t *testing.T) {
	amounts := []money.Money{money.MoneyFromFloat(100)}

	totals, err := ComputeTotals(amounts, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.Total.String())

	totals, err = ComputeTotals(amounts, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "200.00", totals.Total.String())
}

// Recomputing from the same inputs always yields the same result, and
// total = subtotal + tax >= subtotal for every rate in range.
func TestComputeTotals_Invariants(t *testing.T) {
	amounts := []money.Money{
		money.MoneyFromFloat(19.99),
		money.MoneyFromFloat(1050),
		money.MoneyFromFloat(0.01),
	}

	for rate := 0; rate <= 100; rate += 7 {
		taxRate := decimal.NewFromInt(int64(rate))

		first, err := ComputeTotals(amounts, taxRate)
		require.NoError(t, err)
		second, err := ComputeTotals(amounts, taxRate)
		require.NoError(t, err)

		assert.True(t, first.Subtotal.Equal(second.Subtotal))
		assert.True(t, first.Total.Equal(second.Total))
		assert.True(t, first.Total.Equal(first.Subtotal.Add(first.TaxAmount)))
		assert.True(t, first.Total.Cmp(first.Subtotal) >= 0)
	}
}
