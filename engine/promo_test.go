package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePromo_Variants(t *testing.T) {
	tests := []struct {
		name          string
		promo         PromoDefinition
		cost, base    Money
		wantEffective Money
		wantDiscount  Money
		wantSafety    Safety
	}{
		{
			name:          "discount 10 percent",
			promo:         PromoDefinition{Type: PromoDiscount, Percent: 10},
			cost:          6000,
			base:          10000,
			wantEffective: 9000,
			wantDiscount:  1000,
			wantSafety:    SafetySafe,
		},
		{
			name:          "discount percent then nominal",
			promo:         PromoDefinition{Type: PromoDiscount, Percent: 10, Nominal: 500},
			cost:          8000,
			base:          10000,
			wantEffective: 8500,
			wantDiscount:  1500,
			wantSafety:    SafetyThin,
		},
		{
			name:          "nominal larger than price",
			promo:         PromoDefinition{Type: PromoDiscount, Nominal: 25000},
			cost:          8000,
			base:          20000,
			wantEffective: 0,
			wantDiscount:  20000,
			wantSafety:    SafetyDanger,
		},
		{
			name:          "buy one get one",
			promo:         PromoDefinition{Type: PromoBuyNGetM, BuyQty: 1, GetQty: 1},
			cost:          7000,
			base:          20000,
			wantEffective: 10000,
			wantDiscount:  10000,
			wantSafety:    SafetySafe,
		},
		{
			name:          "buy two get one",
			promo:         PromoDefinition{Type: PromoBuyNGetM, BuyQty: 2, GetQty: 1},
			cost:          19000,
			base:          30000,
			wantEffective: 20000,
			wantDiscount:  10000,
			wantSafety:    SafetyThin,
		},
		{
			name:          "bundle of two",
			promo:         PromoDefinition{Type: PromoBundle, BundlePrices: []Money{15000, 10000}},
			cost:          14000,
			base:          0,
			wantEffective: 22500,
			wantDiscount:  2500,
			wantSafety:    SafetySafe,
		},
		{
			name:          "bundle falls back to base price",
			promo:         PromoDefinition{Type: PromoBundle},
			cost:          9500,
			base:          10000,
			wantEffective: 9000,
			wantDiscount:  1000,
			wantSafety:    SafetyDanger,
		},
		{
			name:          "tebus murah uses redemption price",
			promo:         PromoDefinition{Type: PromoMinimumRedemption, MinPurchase: 50000, RedemptionPrice: 5000},
			cost:          3000,
			base:          12000,
			wantEffective: 5000,
			wantDiscount:  7000,
			wantSafety:    SafetySafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EvaluatePromo(tt.promo, tt.cost, tt.base, DefaultPolicy())
			require.NoError(t, err)

			assert.Equal(t, tt.wantEffective, res.EffectivePrice)
			assert.Equal(t, tt.wantDiscount, res.DiscountAmount)
			assert.Equal(t, tt.wantSafety, res.Safety)
			assert.Equal(t, tt.promo.Type, res.Type)
		})
	}
}

func TestEvaluatePromo_UnsupportedType(t *testing.T) {
	res, err := EvaluatePromo(PromoDefinition{Type: "flash_sale"}, 8000, 10000, DefaultPolicy())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedPromoType))

	var typed *UnsupportedPromoTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, PromoType("flash_sale"), typed.Type)
	assert.NotEqual(t, Money(10000), res.EffectivePrice)
	assert.Equal(t, PromoResult{}, res)
}

func TestEvaluatePromo_BuyQtyMustBePositive(t *testing.T) {
	_, err := EvaluatePromo(PromoDefinition{Type: PromoBuyNGetM, BuyQty: 0, GetQty: 1}, 1000, 5000, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidNumericInput)
}

func TestClassifyMargin(t *testing.T) {
	tests := []struct {
		effective, cost Money
		wantRatio       float64
		want            Safety
	}{
		{8500, 8000, 0.0588, SafetyThin},
		{10000, 8000, 0.2, SafetySafe},
		{10000, 9000, 0.1, SafetySafe},
		{8000, 8000, 0, SafetyThin},
		{7000, 8000, -0.1429, SafetyDanger},
		{0, 500, -500, SafetyDanger},
	}

	for _, tt := range tests {
		ratio, got := ClassifyMargin(tt.effective, tt.cost, 0.10)
		assert.Equal(t, tt.want, got, "effective=%d cost=%d", tt.effective, tt.cost)
		assert.InDelta(t, tt.wantRatio, ratio, 1e-9, "effective=%d cost=%d", tt.effective, tt.cost)
	}
}

func TestParsePromoType(t *testing.T) {
	got, err := ParsePromoType("buy_n_get_m")
	require.NoError(t, err)
	assert.Equal(t, PromoBuyNGetM, got)

	_, err = ParsePromoType("cashback")
	assert.ErrorIs(t, err, ErrUnsupportedPromoType)
}

func TestPromoDefinition_IsActiveAt(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC)
	p := PromoDefinition{Type: PromoDiscount, Active: true, StartsAt: &start, EndsAt: &end}

	assert.True(t, p.IsActiveAt(start))
	assert.True(t, p.IsActiveAt(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)))
	assert.True(t, p.IsActiveAt(end))
	assert.False(t, p.IsActiveAt(start.Add(-time.Second)))
	assert.False(t, p.IsActiveAt(end.Add(time.Second)))

	p.Active = false
	assert.False(t, p.IsActiveAt(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)))

	open := PromoDefinition{Active: true}
	assert.True(t, open.IsActiveAt(time.Now()))
}
