package models

import (
	"time"

	"github.com/sigitdim/fortisapp-sub001/engine"
)

// Ingredient (bahan) as purchased. Unit price is derived, never stored.
type Ingredient struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	PurchasePrice int64     `gorm:"not null;default:0" json:"purchase_price"`
	PurchaseQty   float64   `gorm:"not null;default:1" json:"purchase_qty"`
	Unit          string    `gorm:"type:varchar(32);not null" json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (i Ingredient) UnitPrice() float64 {
	return engine.UnitPrice(float64(i.PurchasePrice), i.PurchaseQty)
}

func (i Ingredient) ToEngine() engine.Ingredient {
	return engine.Ingredient{
		ID:        i.ID,
		Name:      i.Name,
		UnitPrice: i.UnitPrice(),
		Unit:      i.Unit,
	}
}

// IngredientPriceHistory is append-only: one row per explicit price update.
type IngredientPriceHistory struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OldPrice     int64      `gorm:"not null" json:"old_price"`
	NewPrice     int64      `gorm:"not null" json:"new_price"`
	OldQty       float64    `gorm:"not null" json:"old_qty"`
	NewQty       float64    `gorm:"not null" json:"new_qty"`
	ChangedBy    uint       `json:"changed_by"`
	ChangedAt    time.Time  `gorm:"not null;index" json:"changed_at"`
}
