package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// UndefinedMargin is how a margin over a zero reference price is displayed.
const UndefinedMargin = "—"

// PriceRecommendation is the three preset target-margin price points.
type PriceRecommendation struct {
	Competitive Money `json:"competitive"`
	Standard    Money `json:"standard"`
	Premium     Money `json:"premium"`
}

// ProfitView is the profit picture of one candidate selling price.
// MarginPct is nil when the reference price is zero.
type ProfitView struct {
	ReferencePrice       Money  `json:"reference_price"`
	TotalCost            Money  `json:"total_cost"`
	ProfitPerUnit        Money  `json:"profit_per_unit"`
	MarginPct            *int64 `json:"margin_pct"`
	PriceAfterTax        Money  `json:"price_after_tax"`
	PriceAfterChannelFee Money  `json:"price_after_channel_fee"`
}

// MarginLabel renders the margin as "35%" or UndefinedMargin.
func (v ProfitView) MarginLabel() string {
	if v.MarginPct == nil {
		return UndefinedMargin
	}
	return fmt.Sprintf("%d%%", *v.MarginPct)
}

// Recommend derives the competitive, standard and premium prices for a total cost.
// Costs above MaxMoney are priced as MaxMoney.
func Recommend(totalCost Money, policy PricingPolicy) PriceRecommendation {
	cost := min(nonNegative(totalCost), MaxMoney)
	return PriceRecommendation{
		Competitive: tierPrice(cost, policy.CompetitiveMargin, policy.PriceStep),
		Standard:    tierPrice(cost, policy.StandardMargin, policy.PriceStep),
		Premium:     tierPrice(cost, policy.PremiumMargin, policy.PriceStep),
	}
}

// tierPrice solves price = cost / (1 - margin), rounds it to the nearest step
// and guarantees the result stays strictly above cost.
func tierPrice(cost Money, margin float64, step Money) Money {
	if step <= 0 {
		step = 1
	}
	bumped := cost + step
	if !(margin >= 0 && margin < 1) {
		return bumped
	}

	stepD := step.decimal()
	denom := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(margin))
	raw := cost.decimal().Div(denom)
	price := roundMoney(raw.Div(stepD).Round(0).Mul(stepD))
	if price <= cost {
		return bumped
	}
	return price
}

// Profit computes profit, margin and the tax / channel-fee pass-through
// prices for a reference selling price.
func Profit(referencePrice, totalCost Money, applyTax, applyChannelFee bool, policy PricingPolicy) ProfitView {
	ref := nonNegative(referencePrice)
	cost := nonNegative(totalCost)

	view := ProfitView{
		ReferencePrice: ref,
		TotalCost:      cost,
		ProfitPerUnit:  nonNegative(ref - cost),
		PriceAfterTax:  ref,
	}

	if ref > 0 {
		pct := view.ProfitPerUnit.decimal().
			Mul(decimal.NewFromInt(100)).
			Div(ref.decimal()).
			Round(0).
			IntPart()
		view.MarginPct = &pct
	}

	if applyTax {
		view.PriceAfterTax = markUp(ref, policy.TaxRate)
	}
	view.PriceAfterChannelFee = view.PriceAfterTax
	if applyChannelFee {
		view.PriceAfterChannelFee = markUp(view.PriceAfterTax, policy.ChannelFeeRate)
	}

	return view
}

func markUp(m Money, rate float64) Money {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return m
	}
	return roundMoney(m.decimal().Mul(decimal.NewFromFloat(1 + rate)))
}
