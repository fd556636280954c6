package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type PromoType string

const (
	PromoDiscount          PromoType = "discount"
	PromoBuyNGetM          PromoType = "buy_n_get_m"
	PromoBundle            PromoType = "bundle"
	PromoMinimumRedemption PromoType = "minimum_redemption" // tebus murah
)

// Safety is the three-band profitability verdict of a promo.
type Safety string

const (
	SafetySafe   Safety = "safe"
	SafetyThin   Safety = "thin"
	SafetyDanger Safety = "danger"
)

// PromoDefinition describes a promo. Which parameters are read depends on Type:
//
//	discount            Percent, Nominal
//	buy_n_get_m         BuyQty, GetQty
//	bundle              BundlePrices (falls back to the base price)
//	minimum_redemption  MinPurchase, RedemptionPrice
type PromoDefinition struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Type            PromoType  `json:"type"`
	Percent         float64    `json:"percent,omitempty"`
	Nominal         Money      `json:"nominal,omitempty"`
	BuyQty          int        `json:"buy_qty,omitempty"`
	GetQty          int        `json:"get_qty,omitempty"`
	BundlePrices    []Money    `json:"bundle_prices,omitempty"`
	MinPurchase     Money      `json:"min_purchase,omitempty"`
	RedemptionPrice Money      `json:"redemption_price,omitempty"`
	ProductIDs      []uint     `json:"product_ids"`
	Active          bool       `json:"active"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
}

// IsActiveAt reports whether the promo is switched on and t falls inside its
// optional window. Both window ends are inclusive.
func (p PromoDefinition) IsActiveAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	return true
}

// PromoResult is the outcome of evaluating one promo against one cost.
type PromoResult struct {
	PromoID        uint      `json:"promo_id,omitempty"`
	Type           PromoType `json:"type"`
	EffectivePrice Money     `json:"effective_price"`
	DiscountAmount Money     `json:"discount_amount"`
	MarginRatio    float64   `json:"margin_ratio"`
	Safety         Safety    `json:"margin_safety"`
}

// ParsePromoType maps a raw type string to a known PromoType.
func ParsePromoType(s string) (PromoType, error) {
	switch t := PromoType(s); t {
	case PromoDiscount, PromoBuyNGetM, PromoBundle, PromoMinimumRedemption:
		return t, nil
	default:
		return "", &UnsupportedPromoTypeError{Type: t}
	}
}

// EvaluatePromo computes the effective price of a promo and classifies its
// margin against totalCost.
//
// For minimum_redemption, totalCost and basePrice belong to the redeemed item,
// not to the purchase that unlocks it.
func EvaluatePromo(p PromoDefinition, totalCost, basePrice Money, policy PricingPolicy) (PromoResult, error) {
	base := nonNegative(basePrice)
	reference := base

	var effective Money
	switch p.Type {
	case PromoDiscount:
		if math.IsNaN(p.Percent) {
			return PromoResult{}, fmt.Errorf("%w: percent is not a finite number", ErrInvalidNumericInput)
		}
		pct := math.Min(math.Max(p.Percent, 0), 100)
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100)))
		effective = nonNegative(roundMoney(base.decimal().Mul(factor)) - nonNegative(p.Nominal))

	case PromoBuyNGetM:
		if p.BuyQty < 1 {
			return PromoResult{}, fmt.Errorf("%w: buy_qty must be at least 1, got %d", ErrInvalidNumericInput, p.BuyQty)
		}
		get := p.GetQty
		if get < 0 {
			get = 0
		}
		paid := decimal.NewFromInt(int64(p.BuyQty))
		units := decimal.NewFromInt(int64(p.BuyQty + get))
		effective = roundMoney(base.decimal().Mul(paid).Div(units))

	case PromoBundle:
		factor := policy.BundleDiscountFactor
		if !(factor > 0 && factor <= 1) {
			return PromoResult{}, fmt.Errorf("%w: bundle_discount_factor %v", ErrInvalidNumericInput, factor)
		}
		prices := p.BundlePrices
		if len(prices) == 0 {
			prices = []Money{base}
		}
		var sum Money
		for _, price := range prices {
			sum += nonNegative(price)
		}
		reference = sum
		effective = roundMoney(sum.decimal().Mul(decimal.NewFromFloat(factor)))

	case PromoMinimumRedemption:
		effective = nonNegative(p.RedemptionPrice)

	default:
		return PromoResult{}, &UnsupportedPromoTypeError{Type: p.Type}
	}

	ratio, safety := ClassifyMargin(effective, totalCost, policy.MinSafeMargin)
	return PromoResult{
		PromoID:        p.ID,
		Type:           p.Type,
		EffectivePrice: effective,
		DiscountAmount: nonNegative(reference - effective),
		MarginRatio:    ratio,
		Safety:         safety,
	}, nil
}

// ClassifyMargin returns (effective - cost) / max(effective, 1) and its band:
// danger below zero, thin below minSafe, safe otherwise.
func ClassifyMargin(effective, totalCost Money, minSafe float64) (float64, Safety) {
	eff := nonNegative(effective)
	denom := eff
	if denom < 1 {
		denom = 1
	}
	ratio := (eff - nonNegative(totalCost)).decimal().Div(denom.decimal())

	threshold := decimal.Zero
	if minSafe > 0 && !math.IsInf(minSafe, 1) {
		threshold = decimal.NewFromFloat(minSafe)
	}

	safety := SafetySafe
	switch {
	case ratio.IsNegative():
		safety = SafetyDanger
	case ratio.LessThan(threshold):
		safety = SafetyThin
	}
	return ratio.Round(4).InexactFloat64(), safety
}
