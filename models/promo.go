package models

import (
	"time"

	"github.com/sigitdim/fortisapp-sub001/engine"
	"gorm.io/datatypes"
)

type Promo struct {
	ID              uint                       `gorm:"primaryKey" json:"id"`
	OwnerID         uint                       `gorm:"not null;index" json:"owner_id"`
	Name            string                     `gorm:"type:varchar(255);not null" json:"name"`
	Type            string                     `gorm:"type:varchar(32);not null" json:"type"`
	Percent         float64                    `json:"percent"`
	Nominal         int64                      `json:"nominal"`
	BuyQty          int                        `json:"buy_qty"`
	GetQty          int                        `json:"get_qty"`
	BundlePrices    datatypes.JSONSlice[int64] `json:"bundle_prices"`
	MinPurchase     int64                      `json:"min_purchase"`
	RedemptionPrice int64                      `json:"redemption_price"`
	ProductIDs      datatypes.JSONSlice[uint]  `json:"product_ids"`
	Active          bool                       `gorm:"not null" json:"active"`
	StartsAt        *time.Time                 `json:"starts_at"`
	EndsAt          *time.Time                 `json:"ends_at"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ToEngine copies the stored row as-is. An unknown Type is kept so the
// evaluator can reject it.
func (p Promo) ToEngine() engine.PromoDefinition {
	bundle := make([]engine.Money, len(p.BundlePrices))
	for i, v := range p.BundlePrices {
		bundle[i] = engine.Money(v)
	}
	return engine.PromoDefinition{
		ID:              p.ID,
		Name:            p.Name,
		Type:            engine.PromoType(p.Type),
		Percent:         p.Percent,
		Nominal:         engine.Money(p.Nominal),
		BuyQty:          p.BuyQty,
		GetQty:          p.GetQty,
		BundlePrices:    bundle,
		MinPurchase:     engine.Money(p.MinPurchase),
		RedemptionPrice: engine.Money(p.RedemptionPrice),
		ProductIDs:      append([]uint(nil), p.ProductIDs...),
		Active:          p.Active,
		StartsAt:        p.StartsAt,
		EndsAt:          p.EndsAt,
	}
}

// NewPromo builds a storable promo from a validated definition.
func NewPromo(ownerID uint, def engine.PromoDefinition) Promo {
	p := Promo{OwnerID: ownerID}
	p.Apply(def)
	return p
}

// Apply overwrites every editable field with def.
func (p *Promo) Apply(def engine.PromoDefinition) {
	bundle := make([]int64, len(def.BundlePrices))
	for i, v := range def.BundlePrices {
		bundle[i] = int64(v)
	}
	p.Name = def.Name
	p.Type = string(def.Type)
	p.Percent = def.Percent
	p.Nominal = int64(def.Nominal)
	p.BuyQty = def.BuyQty
	p.GetQty = def.GetQty
	p.BundlePrices = bundle
	p.MinPurchase = int64(def.MinPurchase)
	p.RedemptionPrice = int64(def.RedemptionPrice)
	p.ProductIDs = append([]uint{}, def.ProductIDs...)
	p.Active = def.Active
	p.StartsAt = def.StartsAt
	p.EndsAt = def.EndsAt
}
