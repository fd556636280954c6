package models

import "time"

// RoleOwner is the only role; every account owns its own catalog.
const RoleOwner = "owner"

// User is an operator account. Every ingredient, product and promo belongs
// to the owner that created it.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255); not null" json:"name"`
	Email     string    `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255); not null" json:"-"`
	Role      string    `gorm:"type:varchar(32); not null;default:owner" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllModels returns every table in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&IngredientPriceHistory{},
		&Product{},
		&BomLine{},
		&Promo{},
	}
}
