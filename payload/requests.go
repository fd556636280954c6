package payload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sigitdim/fortisapp-sub001/engine"
)

// Ingredient is a validated ingredient payload.
type Ingredient struct {
	Name          string
	PurchasePrice int64
	PurchaseQty   float64
	Unit          string
}

type IngredientRequest struct {
	Name          string  `json:"name" binding:"required"`
	PurchasePrice Number  `json:"purchase_price"`
	PurchaseQty   *Number `json:"purchase_qty"`
	Unit          string  `json:"unit" binding:"required"`
}

func (r IngredientRequest) Normalize() (Ingredient, error) {
	price, err := r.PurchasePrice.Money("purchase_price")
	if err != nil {
		return Ingredient{}, err
	}
	qty, err := optionalFloat(r.PurchaseQty, "purchase_qty", 1)
	if err != nil {
		return Ingredient{}, err
	}
	if qty == 0 {
		return Ingredient{}, fmt.Errorf("%w: purchase_qty must be greater than 0", engine.ErrInvalidNumericInput)
	}
	return Ingredient{
		Name:          strings.TrimSpace(r.Name),
		PurchasePrice: price,
		PurchaseQty:   qty,
		Unit:          strings.TrimSpace(r.Unit),
	}, nil
}

// PriceUpdateRequest is an explicit price-change event for one ingredient.
type PriceUpdateRequest struct {
	PurchasePrice Number  `json:"purchase_price"`
	PurchaseQty   *Number `json:"purchase_qty"`
}

// Normalize falls back to currentQty when no new purchase quantity is sent.
func (r PriceUpdateRequest) Normalize(currentQty float64) (int64, float64, error) {
	price, err := r.PurchasePrice.Money("purchase_price")
	if err != nil {
		return 0, 0, err
	}
	qty, err := optionalFloat(r.PurchaseQty, "purchase_qty", currentQty)
	if err != nil {
		return 0, 0, err
	}
	if qty == 0 {
		return 0, 0, fmt.Errorf("%w: purchase_qty must be greater than 0", engine.ErrInvalidNumericInput)
	}
	return price, qty, nil
}

type Product struct {
	Name      string
	UserPrice int64
	Overhead  *float64
	Labor     *float64
}

type ProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	UserPrice *Number `json:"user_price"`
	Overhead  *Number `json:"overhead"`
	Labor     *Number `json:"labor"`
}

func (r ProductRequest) Normalize() (Product, error) {
	price, err := optionalMoney(r.UserPrice, "user_price")
	if err != nil {
		return Product{}, err
	}
	alloc, err := AllocationRequest{Overhead: r.Overhead, Labor: r.Labor}.Normalize()
	if err != nil {
		return Product{}, err
	}
	return Product{
		Name:      strings.TrimSpace(r.Name),
		UserPrice: price,
		Overhead:  alloc.Overhead,
		Labor:     alloc.Labor,
	}, nil
}

// Allocation keeps nil for an allocation that was not sent.
type Allocation struct {
	Overhead *float64
	Labor    *float64
}

type AllocationRequest struct {
	Overhead *Number `json:"overhead"`
	Labor    *Number `json:"labor"`
}

func (r AllocationRequest) Normalize() (Allocation, error) {
	var out Allocation
	if r.Overhead != nil && r.Overhead.IsSet() {
		v, err := r.Overhead.Float("overhead")
		if err != nil {
			return Allocation{}, err
		}
		out.Overhead = &v
	}
	if r.Labor != nil && r.Labor.IsSet() {
		v, err := r.Labor.Float("labor")
		if err != nil {
			return Allocation{}, err
		}
		out.Labor = &v
	}
	return out, nil
}

type BomLine struct {
	IngredientID uint
	Qty          float64
	Unit         string
}

type BomLineRequest struct {
	IngredientID uint   `json:"ingredient_id" binding:"required"`
	Qty          Number `json:"qty"`
	Unit         string `json:"unit"`
}

type BomRequest struct {
	Lines []BomLineRequest `json:"lines" binding:"dive"`
}

func (r BomRequest) Normalize() ([]BomLine, error) {
	out := make([]BomLine, 0, len(r.Lines))
	for i, l := range r.Lines {
		qty, err := l.Qty.Float(fmt.Sprintf("lines[%d].qty", i))
		if err != nil {
			return nil, err
		}
		out = append(out, BomLine{IngredientID: l.IngredientID, Qty: qty, Unit: strings.TrimSpace(l.Unit)})
	}
	return out, nil
}

// SimulateRequest carries live-typed calculator fields. It is parsed
// leniently: unusable entries count as 0 instead of failing the request.
type SimulateRequest struct {
	Lines []struct {
		Name      string `json:"name"`
		UnitPrice Number `json:"unit_price"`
		Qty       Number `json:"qty"`
		Unit      string `json:"unit"`
	} `json:"lines"`
	Overhead  Number `json:"overhead"`
	Labor     Number `json:"labor"`
	UserPrice Number `json:"user_price"`
}

func (r SimulateRequest) Normalize() (lines []engine.BomLine, overhead, labor float64, price engine.Money) {
	lines = make([]engine.BomLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, engine.BomLine{
			Name:      l.Name,
			UnitPrice: l.UnitPrice.Lenient(),
			Qty:       l.Qty.Lenient(),
			Unit:      l.Unit,
		})
	}
	return lines, r.Overhead.Lenient(), r.Labor.Lenient(), lenientMoney(r.UserPrice)
}

type PromoRequest struct {
	Name            string     `json:"name" binding:"required"`
	Type            string     `json:"type" binding:"required"`
	Percent         *Number    `json:"percent"`
	Nominal         *Number    `json:"nominal"`
	BuyQty          *Number    `json:"buy_qty"`
	GetQty          *Number    `json:"get_qty"`
	BundlePrices    []Number   `json:"bundle_prices"`
	MinPurchase     *Number    `json:"min_purchase"`
	RedemptionPrice *Number    `json:"redemption_price"`
	ProductIDs      []uint     `json:"product_ids"`
	Active          *bool      `json:"active"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
}

// ErrMissingParam marks a promo payload without the parameters its type needs.
var ErrMissingParam = errors.New("missing promo parameter")

// Normalize validates type-specific parameters. An unknown type comes back as
// *engine.UnsupportedPromoTypeError.
func (r PromoRequest) Normalize() (engine.PromoDefinition, error) {
	typ, err := engine.ParsePromoType(strings.TrimSpace(r.Type))
	if err != nil {
		return engine.PromoDefinition{}, err
	}

	def := engine.PromoDefinition{
		Name:       strings.TrimSpace(r.Name),
		Type:       typ,
		ProductIDs: r.ProductIDs,
		Active:     true,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
	}
	if r.Active != nil {
		def.Active = *r.Active
	}
	if def.StartsAt != nil && def.EndsAt != nil && def.EndsAt.Before(*def.StartsAt) {
		return engine.PromoDefinition{}, errors.New("ends_at is before starts_at")
	}

	switch typ {
	case engine.PromoDiscount:
		if (r.Percent == nil || !r.Percent.IsSet()) && (r.Nominal == nil || !r.Nominal.IsSet()) {
			return engine.PromoDefinition{}, fmt.Errorf("%w: discount needs percent or nominal", ErrMissingParam)
		}
		if def.Percent, err = optionalFloat(r.Percent, "percent", 0); err != nil {
			return engine.PromoDefinition{}, err
		}
		if def.Percent > 100 {
			return engine.PromoDefinition{}, fmt.Errorf("%w: percent must be at most 100", engine.ErrInvalidNumericInput)
		}
		nominal, err := optionalMoney(r.Nominal, "nominal")
		if err != nil {
			return engine.PromoDefinition{}, err
		}
		def.Nominal = engine.Money(nominal)

	case engine.PromoBuyNGetM:
		if r.BuyQty == nil || r.GetQty == nil {
			return engine.PromoDefinition{}, fmt.Errorf("%w: buy_n_get_m needs buy_qty and get_qty", ErrMissingParam)
		}
		if def.BuyQty, err = r.BuyQty.Int("buy_qty"); err != nil {
			return engine.PromoDefinition{}, err
		}
		if def.GetQty, err = r.GetQty.Int("get_qty"); err != nil {
			return engine.PromoDefinition{}, err
		}
		if def.BuyQty < 1 {
			return engine.PromoDefinition{}, fmt.Errorf("%w: buy_qty must be at least 1", engine.ErrInvalidNumericInput)
		}

	case engine.PromoBundle:
		for i, p := range r.BundlePrices {
			v, err := p.Money(fmt.Sprintf("bundle_prices[%d]", i))
			if err != nil {
				return engine.PromoDefinition{}, err
			}
			def.BundlePrices = append(def.BundlePrices, engine.Money(v))
		}

	case engine.PromoMinimumRedemption:
		if r.RedemptionPrice == nil || !r.RedemptionPrice.IsSet() {
			return engine.PromoDefinition{}, fmt.Errorf("%w: minimum_redemption needs redemption_price", ErrMissingParam)
		}
		redemption, err := r.RedemptionPrice.Money("redemption_price")
		if err != nil {
			return engine.PromoDefinition{}, err
		}
		minPurchase, err := optionalMoney(r.MinPurchase, "min_purchase")
		if err != nil {
			return engine.PromoDefinition{}, err
		}
		def.RedemptionPrice = engine.Money(redemption)
		def.MinPurchase = engine.Money(minPurchase)
	}

	return def, nil
}

// EvaluateRequest picks the product a promo is evaluated against. BasePrice
// overrides the product's selling price.
type EvaluateRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	BasePrice *Number `json:"base_price"`
}

// Base returns nil when no base price was sent.
func (r EvaluateRequest) Base() (*engine.Money, error) {
	if r.BasePrice == nil || !r.BasePrice.IsSet() {
		return nil, nil
	}
	v, err := r.BasePrice.Money("base_price")
	if err != nil {
		return nil, err
	}
	m := engine.Money(v)
	return &m, nil
}

// SimulatePromoRequest evaluates a promo definition that is not stored.
type SimulatePromoRequest struct {
	EvaluateRequest
	Promo PromoRequest `json:"promo"`
}
