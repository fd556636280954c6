package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigitdim/fortisapp-sub001/engine"
)

func TestNumber_StrictParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"12500", 12500, false},
		{"12.500", 12500, false},
		{"1.250.000", 1250000, false},
		{"Rp 15.000", 15000, false},
		{"2.100,50", 2100.5, false},
		{"12,5", 12.5, false},
		{"0.5", 0.5, false},
		{"12.5", 12.5, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-10", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NewNumber(tt.raw).Float("price")
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumber_UnmarshalNumberStringAndNull(t *testing.T) {
	var body struct {
		A Number  `json:"a"`
		B Number  `json:"b"`
		C *Number `json:"c"`
		D Number  `json:"d"`
		E Number  `json:"e"`
		F Number  `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2100.5, "b": "12.500", "c": null, "e": 1.250, "f": "1.250"}`), &body))

	// a JSON number is never read with thousands separators
	e, err := body.E.Float("e")
	require.NoError(t, err)
	assert.Equal(t, 1.25, e)
	f, err := body.F.Float("f")
	require.NoError(t, err)
	assert.Equal(t, 1250.0, f)

	a, err := body.A.Float("a")
	require.NoError(t, err)
	assert.Equal(t, 2100.5, a)

	b, err := body.B.Money("b")
	require.NoError(t, err)
	assert.Equal(t, int64(12500), b)

	assert.True(t, body.C == nil || !body.C.IsSet())
	assert.False(t, body.D.IsSet())
	_, err = body.D.Float("d")
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)
}

func TestBomRequest_DecimalQtyStaysDecimal(t *testing.T) {
	var req BomRequest
	require.NoError(t, json.Unmarshal([]byte(`{"lines":[{"ingredient_id":1,"qty":1.250},{"ingredient_id":2,"qty":"1.250"}]}`), &req))

	lines, err := req.Normalize()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1.25, lines[0].Qty)
	assert.Equal(t, 1250.0, lines[1].Qty)
}

func TestNumber_RejectsAmountsAboveCeiling(t *testing.T) {
	for _, body := range []string{
		`{"name":"x","user_price":1e30}`,
		`{"name":"x","user_price":"18446744073709551616"}`,
		`{"name":"x","user_price":1e400}`,
		`{"name":"x","overhead":1000000000000001}`,
	} {
		var req ProductRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		_, err := req.Normalize()
		assert.ErrorIs(t, err, engine.ErrInvalidNumericInput, body)
	}

	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","user_price":1000000000000000}`), &req))
	p, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, int64(engine.MaxMoney), p.UserPrice)
}

func TestNumber_MoneyRoundsHalfUp(t *testing.T) {
	m, err := NewNumber("2100,5").Money("price")
	require.NoError(t, err)
	assert.Equal(t, int64(2101), m)
}

func TestLenient_ClampsToZero(t *testing.T) {
	assert.Equal(t, 0.0, Lenient("abc"))
	assert.Equal(t, 0.0, Lenient("-4"))
	assert.Equal(t, 0.0, Lenient("NaN"))
	assert.Equal(t, 0.0, Lenient(""))
	assert.Equal(t, 15000.0, Lenient("15.000"))
}

func TestLenient_ClampsToCeiling(t *testing.T) {
	ceiling := float64(engine.MaxMoney)
	assert.Equal(t, ceiling, Lenient("18446744073709551616"))
	assert.Equal(t, ceiling, Lenient("1e30"))
	assert.Equal(t, ceiling, Lenient("Inf"))

	var req SimulateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"overhead":1e30,"user_price":"1e400","labor":1.5}`), &req))
	_, overhead, labor, price := req.Normalize()
	assert.Equal(t, ceiling, overhead)
	assert.Equal(t, 1.5, labor)
	assert.Equal(t, engine.MaxMoney, price)
}

func TestIngredientRequest_Normalize(t *testing.T) {
	var req IngredientRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":" Susu UHT ","purchase_price":"21.000","purchase_qty":1000,"unit":"ml"}`), &req))

	ing, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Ingredient{Name: "Susu UHT", PurchasePrice: 21000, PurchaseQty: 1000, Unit: "ml"}, ing)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","purchase_price":"dua ribu","unit":"g"}`), &req))
	_, err = req.Normalize()
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","purchase_price":100,"purchase_qty":0,"unit":"g"}`), &req))
	_, err = req.Normalize()
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)
}

func TestAllocationRequest_KeepsMissingAsNil(t *testing.T) {
	var req AllocationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"overhead": "4.200"}`), &req))

	alloc, err := req.Normalize()
	require.NoError(t, err)
	require.NotNil(t, alloc.Overhead)
	assert.Equal(t, 4200.0, *alloc.Overhead)
	assert.Nil(t, alloc.Labor)
}

func TestPromoRequest_Normalize(t *testing.T) {
	decode := func(s string) PromoRequest {
		var r PromoRequest
		require.NoError(t, json.Unmarshal([]byte(s), &r))
		return r
	}

	def, err := decode(`{"name":"Diskon 10%","type":"discount","percent":10}`).Normalize()
	require.NoError(t, err)
	assert.Equal(t, engine.PromoDiscount, def.Type)
	assert.Equal(t, 10.0, def.Percent)
	assert.True(t, def.Active)

	def, err = decode(`{"name":"B1G1","type":"buy_n_get_m","buy_qty":1,"get_qty":"1","active":false}`).Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, def.BuyQty)
	assert.Equal(t, 1, def.GetQty)
	assert.False(t, def.Active)

	def, err = decode(`{"name":"Paket","type":"bundle","bundle_prices":["15.000", 10000]}`).Normalize()
	require.NoError(t, err)
	assert.Equal(t, []engine.Money{15000, 10000}, def.BundlePrices)

	def, err = decode(`{"name":"Tebus murah","type":"minimum_redemption","min_purchase":50000,"redemption_price":5000}`).Normalize()
	require.NoError(t, err)
	assert.Equal(t, engine.Money(5000), def.RedemptionPrice)
	assert.Equal(t, engine.Money(50000), def.MinPurchase)

	_, err = decode(`{"name":"x","type":"cashback"}`).Normalize()
	assert.ErrorIs(t, err, engine.ErrUnsupportedPromoType)

	_, err = decode(`{"name":"x","type":"discount"}`).Normalize()
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = decode(`{"name":"x","type":"buy_n_get_m","buy_qty":1.5,"get_qty":1}`).Normalize()
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)

	_, err = decode(`{"name":"x","type":"discount","percent":"sepuluh"}`).Normalize()
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)

	_, err = decode(`{"name":"x","type":"discount","percent":10,"starts_at":"2026-10-10T00:00:00Z","ends_at":"2026-10-01T00:00:00Z"}`).Normalize()
	assert.Error(t, err)
}

func TestSimulateRequest_IsLenient(t *testing.T) {
	var req SimulateRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"lines":[{"name":"gula","unit_price":"500","qty":"10"},{"name":"typo","unit_price":"5o0","qty":"-3"}],
		"overhead":"4.200","labor":"","user_price":"15.000"}`), &req))

	lines, overhead, labor, price := req.Normalize()
	require.Len(t, lines, 2)
	assert.Equal(t, 500.0, lines[0].UnitPrice)
	assert.Equal(t, 0.0, lines[1].UnitPrice)
	assert.Equal(t, 0.0, lines[1].Qty)
	assert.Equal(t, 4200.0, overhead)
	assert.Equal(t, 0.0, labor)
	assert.Equal(t, engine.Money(15000), price)
}

func TestEvaluateRequest_Base(t *testing.T) {
	var req EvaluateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"product_id":3}`), &req))
	base, err := req.Base()
	require.NoError(t, err)
	assert.Nil(t, base)

	require.NoError(t, json.Unmarshal([]byte(`{"product_id":3,"base_price":"Rp 10.000"}`), &req))
	base, err = req.Base()
	require.NoError(t, err)
	require.NotNil(t, base)
	assert.Equal(t, engine.Money(10000), *base)

	require.NoError(t, json.Unmarshal([]byte(`{"product_id":3,"base_price":"sepuluh"}`), &req))
	_, err = req.Base()
	assert.ErrorIs(t, err, engine.ErrInvalidNumericInput)
}
