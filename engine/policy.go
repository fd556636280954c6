package engine

import (
	"errors"
	"fmt"
)

// PricingPolicy holds every tunable constant used by the recommender and the
// promo evaluator. It is passed into each call; the engine keeps no globals.
type PricingPolicy struct {
	CompetitiveMargin    float64 `json:"competitive_margin"`
	StandardMargin       float64 `json:"standard_margin"`
	PremiumMargin        float64 `json:"premium_margin"`
	TaxRate              float64 `json:"tax_rate"`
	ChannelFeeRate       float64 `json:"channel_fee_rate"`
	BundleDiscountFactor float64 `json:"bundle_discount_factor"`
	MinSafeMargin        float64 `json:"min_safe_margin"`
	PriceStep            Money   `json:"price_step"`
}

// DefaultPolicy returns the canonical constant set.
// Standard/premium margins and the channel fee were observed with several
// values in the field; these are the chosen defaults.
func DefaultPolicy() PricingPolicy {
	return PricingPolicy{
		CompetitiveMargin:    0.20,
		StandardMargin:       0.30,
		PremiumMargin:        0.50,
		TaxRate:              0.10,
		ChannelFeeRate:       0.20,
		BundleDiscountFactor: 0.90,
		MinSafeMargin:        0.10,
		PriceStep:            1000,
	}
}

// Validate rejects policies the formulas cannot work with.
func (p PricingPolicy) Validate() error {
	var errs []error
	margins := []struct {
		name string
		v    float64
	}{
		{"competitive_margin", p.CompetitiveMargin},
		{"standard_margin", p.StandardMargin},
		{"premium_margin", p.PremiumMargin},
	}
	for _, m := range margins {
		if !(m.v > 0 && m.v < 1) {
			errs = append(errs, fmt.Errorf("%s must be in (0, 1), got %v", m.name, m.v))
		}
	}
	if !(p.TaxRate >= 0 && p.TaxRate < 1) {
		errs = append(errs, fmt.Errorf("tax_rate must be in [0, 1), got %v", p.TaxRate))
	}
	if !(p.ChannelFeeRate >= 0 && p.ChannelFeeRate < 1) {
		errs = append(errs, fmt.Errorf("channel_fee_rate must be in [0, 1), got %v", p.ChannelFeeRate))
	}
	if !(p.BundleDiscountFactor > 0 && p.BundleDiscountFactor <= 1) {
		errs = append(errs, fmt.Errorf("bundle_discount_factor must be in (0, 1], got %v", p.BundleDiscountFactor))
	}
	if !(p.MinSafeMargin >= 0 && p.MinSafeMargin < 1) {
		errs = append(errs, fmt.Errorf("min_safe_margin must be in [0, 1), got %v", p.MinSafeMargin))
	}
	if p.PriceStep <= 0 {
		errs = append(errs, fmt.Errorf("price_step must be positive, got %d", p.PriceStep))
	}
	return errors.Join(errs...)
}
