package booking

import "fmt"

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// Quote returns the total price in fils for the given parameters.
	Quote(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	DailyRateFils int64
	Period        DateRange
	Services      []AdditionalService
}

// StandardPricingStrategy implements the default per-day pricing:
//
//	total = daily rate x billable days + sum of add-on service prices
//
// Billable days come from DateRange.Days (difference rounded up, minimum
// one), so the same quote is produced at creation and at date amendment.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Quote computes the total price in fils.
func (s *StandardPricingStrategy) Quote(params PricingParams) (int64, error) {
	if params.DailyRateFils <= 0 {
		return 0, fmt.Errorf("daily rate must be positive")
	}

	total := params.DailyRateFils * int64(params.Period.Days())

	for _, svc := range params.Services {
		if svc.PriceFils < 0 {
			return 0, fmt.Errorf("service %q has negative price", svc.Name)
		}
		total += svc.PriceFils
	}

	return total, nil
}
