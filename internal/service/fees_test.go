package service

import (
	"errors"
	"math"
	"testing"

	"payswiftly/internal/config"
	"payswiftly/internal/domain"
)

func TestFeeCalculator_PercentageScheme(t *testing.T) {
	t.Parallel()

	calc := NewFeeCalculator(config.FeeConfig{Percentage: 0.5})

	tests := []struct {
		name       string
		amount     float64
		wantFee    float64
		wantDriver float64
	}{
		{"round amount", 1000, 5.00, 995.00},
		{"small amount", 100, 0.50, 99.50},
		{"fee rounds up", 333, 1.67, 331.33},
		{"fee rounds down", 250.50, 1.25, 249.25},
		{"single unit", 1, 0.01, 0.99},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := calc.Calculate(tt.amount)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.PlatformFee != tt.wantFee {
				t.Errorf("platform fee = %v, want %v", got.PlatformFee, tt.wantFee)
			}
			if got.DriverAmount != tt.wantDriver {
				t.Errorf("driver amount = %v, want %v", got.DriverAmount, tt.wantDriver)
			}
		})
	}
}

func TestFeeCalculator_FixedScheme(t *testing.T) {
	t.Parallel()

	calc := NewFeeCalculator(config.FeeConfig{Fixed: 10})

	got, err := calc.Calculate(250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PlatformFee != 10 {
		t.Errorf("platform fee = %v, want 10", got.PlatformFee)
	}
	if got.DriverAmount != 240 {
		t.Errorf("driver amount = %v, want 240", got.DriverAmount)
	}
	if calc.FeeType() != domain.FeeTypeFixed {
		t.Errorf("fee type = %s, want %s", calc.FeeType(), domain.FeeTypeFixed)
	}
}

func TestFeeCalculator_CombinedScheme(t *testing.T) {
	t.Parallel()

	calc := NewFeeCalculator(config.FeeConfig{Percentage: 2, Fixed: 5})

	got, err := calc.Calculate(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PlatformFee != 25.00 {
		t.Errorf("platform fee = %v, want 25.00", got.PlatformFee)
	}
	if got.DriverAmount != 975.00 {
		t.Errorf("driver amount = %v, want 975.00", got.DriverAmount)
	}
	if calc.FeeType() != domain.FeeTypePercentage {
		t.Errorf("fee type = %s, want %s", calc.FeeType(), domain.FeeTypePercentage)
	}
}

// The breakdown must always reassemble to the paid amount at 2 decimal
// places, whatever the rounding did to the individual parts.
func TestFeeCalculator_PartsSumToTotal(t *testing.T) {
	t.Parallel()

	calc := NewFeeCalculator(config.FeeConfig{Percentage: 0.5})

	amounts := []float64{1, 3, 49.99, 100, 333, 999.99, 1000, 12345.67, 0.01}
	for _, amount := range amounts {
		got, err := calc.Calculate(amount)
		if err != nil {
			t.Fatalf("Calculate(%v): unexpected error: %v", amount, err)
		}

		sum := got.PlatformFee + got.DriverAmount
		if math.Abs(sum-got.Total) > 0.005 {
			t.Errorf("Calculate(%v): fee %v + driver %v = %v, want %v",
				amount, got.PlatformFee, got.DriverAmount, sum, got.Total)
		}
	}
}

func TestFeeCalculator_RejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	calc := NewFeeCalculator(config.FeeConfig{Percentage: 0.5})

	for _, amount := range []float64{0, -1, -1000} {
		_, err := calc.Calculate(amount)
		if !errors.Is(err, ErrInvalidPaymentAmount) {
			t.Errorf("Calculate(%v): error = %v, want ErrInvalidPaymentAmount", amount, err)
		}
	}
}
