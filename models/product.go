package models

import (
	"time"

	"github.com/sigitdim/fortisapp-sub001/engine"
)

type Product struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerID   uint   `gorm:"not null;index" json:"owner_id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	UserPrice int64  `gorm:"not null;default:0" json:"user_price"`
	// nil berarti belum diisi, dihitung 0
	Overhead  *float64  `json:"overhead"`
	Labor     *float64  `json:"labor"`
	BomLines  []BomLine `gorm:"foreignKey:ProductID" json:"bom_lines,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BomLine (komposisi) links a product to one ingredient.
type BomLine struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProductID    uint       `gorm:"not null;index" json:"product_id"`
	Product      Product    `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Qty          float64    `gorm:"not null" json:"qty"`
	Unit         string     `gorm:"type:varchar(32)" json:"unit"`
}

// ToEngine expects Ingredient to be preloaded.
func (b BomLine) ToEngine() engine.BomLine {
	return engine.BomLine{
		IngredientID: b.IngredientID,
		Name:         b.Ingredient.Name,
		UnitPrice:    b.Ingredient.UnitPrice(),
		Qty:          b.Qty,
		Unit:         b.Unit,
	}
}

func allocation(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (p Product) OverheadValue() float64 { return allocation(p.Overhead) }

func (p Product) LaborValue() float64 { return allocation(p.Labor) }
