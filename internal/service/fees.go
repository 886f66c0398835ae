package service

import (
	"github.com/shopspring/decimal"

	"payswiftly/internal/config"
	"payswiftly/internal/domain"
)

// FeeCalculator splits a payment amount into the platform fee and the
// driver's share: fee = round(amount * pct/100 + fixed, 2),
// driver = round(amount - fee, 2). The scheme is fixed at construction;
// changing configuration never retroactively affects stored transactions
// because each transaction persists the scheme actually applied.
type FeeCalculator struct {
	percentage decimal.Decimal
	fixed      decimal.Decimal

	pctValue   float64
	fixedValue float64
}

// NewFeeCalculator creates a fee calculator from the configured scheme.
func NewFeeCalculator(cfg config.FeeConfig) *FeeCalculator {
	return &FeeCalculator{
		percentage: decimal.NewFromFloat(cfg.Percentage),
		fixed:      decimal.NewFromFloat(cfg.Fixed),
		pctValue:   cfg.Percentage,
		fixedValue: cfg.Fixed,
	}
}

// Calculate returns the fee breakdown for a positive amount.
func (f *FeeCalculator) Calculate(amount float64) (domain.FeeBreakdown, error) {
	if amount <= 0 {
		return domain.FeeBreakdown{}, ErrInvalidPaymentAmount
	}

	total := decimal.NewFromFloat(amount)

	fee := total.
		Mul(f.percentage).
		Div(decimal.NewFromInt(100)).
		Add(f.fixed).
		Round(2)

	driver := total.Sub(fee).Round(2)

	feeValue, _ := fee.Float64()
	driverValue, _ := driver.Float64()
	totalValue, _ := total.Round(2).Float64()

	return domain.FeeBreakdown{
		Total:         totalValue,
		PlatformFee:   feeValue,
		DriverAmount:  driverValue,
		FeePercentage: f.pctValue,
		FeeFixed:      f.fixedValue,
	}, nil
}

// FeeType names the dominant component of the configured scheme, recorded on
// platform fee ledger rows.
func (f *FeeCalculator) FeeType() string {
	if f.pctValue == 0 && f.fixedValue > 0 {
		return domain.FeeTypeFixed
	}
	return domain.FeeTypePercentage
}
