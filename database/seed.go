package database

import (
	"fmt"

	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoEmail and DemoPassword log into the seeded demo owner.
const (
	DemoEmail    = "demo@fortisapp.id"
	DemoPassword = "demo12345"
)

// Seed fills an empty database with one demo owner and a small coffee shop
// catalog. It does nothing when users already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		utils.InfoLogger.Println("Database already has data. Skipping seed.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		owner, err := seedOwner(tx)
		if err != nil {
			return fmt.Errorf("failed to seed owner: %w", err)
		}
		ingredients, err := seedIngredients(tx, owner.ID)
		if err != nil {
			return fmt.Errorf("failed to seed ingredients: %w", err)
		}
		if err := seedProducts(tx, owner.ID, ingredients); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		if err := seedPromos(tx, owner.ID); err != nil {
			return fmt.Errorf("failed to seed promos: %w", err)
		}
		utils.InfoLogger.Printf("Seeded demo owner %s", owner.Email)
		return nil
	})
}

func seedOwner(tx *gorm.DB) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	owner := models.User{
		Name:     "Demo Owner",
		Email:    DemoEmail,
		Password: string(hashed),
		Role:     models.RoleOwner,
	}
	return owner, tx.Create(&owner).Error
}

func seedIngredients(tx *gorm.DB, ownerID uint) (map[string]uint, error) {
	rows := []models.Ingredient{
		{Name: "Gula aren", PurchasePrice: 50000, PurchaseQty: 100, Unit: "gram"},
		{Name: "Susu UHT", PurchasePrice: 21000, PurchaseQty: 1000, Unit: "ml"},
		{Name: "Biji kopi", PurchasePrice: 200000, PurchaseQty: 1000, Unit: "gram"},
		{Name: "Teh melati", PurchasePrice: 15000, PurchaseQty: 100, Unit: "gram"},
		{Name: "Roti tawar", PurchasePrice: 16000, PurchaseQty: 4, Unit: "pcs"},
	}
	ids := make(map[string]uint, len(rows))
	for i := range rows {
		rows[i].OwnerID = ownerID
		if err := tx.Create(&rows[i]).Error; err != nil {
			return nil, err
		}
		ids[rows[i].Name] = rows[i].ID
	}
	return ids, nil
}

func seedProducts(tx *gorm.DB, ownerID uint, ing map[string]uint) error {
	overhead := 4200.0
	labor := 1500.0
	products := []struct {
		product models.Product
		lines   []models.BomLine
	}{
		{
			product: models.Product{Name: "Kopi Susu Aren", UserPrice: 18000, Overhead: &overhead},
			lines: []models.BomLine{
				{IngredientID: ing["Gula aren"], Qty: 10, Unit: "gram"},
				{IngredientID: ing["Susu UHT"], Qty: 100, Unit: "ml"},
				{IngredientID: ing["Biji kopi"], Qty: 18, Unit: "gram"},
			},
		},
		{
			product: models.Product{Name: "Es Teh", UserPrice: 5000},
			lines: []models.BomLine{
				{IngredientID: ing["Teh melati"], Qty: 5, Unit: "gram"},
				{IngredientID: ing["Gula aren"], Qty: 5, Unit: "gram"},
			},
		},
		{
			product: models.Product{Name: "Roti Bakar", Labor: &labor},
			lines: []models.BomLine{
				{IngredientID: ing["Roti tawar"], Qty: 2, Unit: "pcs"},
			},
		},
	}
	for _, p := range products {
		p.product.OwnerID = ownerID
		if err := tx.Create(&p.product).Error; err != nil {
			return err
		}
		for _, line := range p.lines {
			line.ProductID = p.product.ID
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedPromos(tx *gorm.DB, ownerID uint) error {
	promos := []models.Promo{
		{OwnerID: ownerID, Name: "Diskon Gajian 10%", Type: "discount", Percent: 10, Active: true},
		{OwnerID: ownerID, Name: "Beli 1 Gratis 1", Type: "buy_n_get_m", BuyQty: 1, GetQty: 1, Active: true},
		{OwnerID: ownerID, Name: "Paket Sarapan", Type: "bundle", BundlePrices: []int64{18000, 12000}, Active: true},
		{OwnerID: ownerID, Name: "Tebus Murah Es Teh", Type: "minimum_redemption", MinPurchase: 50000, RedemptionPrice: 2000, Active: true},
	}
	return tx.Create(&promos).Error
}
