package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/models"
)

func setupCatalogDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedKopiSusu(t *testing.T, db *gorm.DB) (owner uint, product models.Product) {
	owner = 7
	gula := models.Ingredient{OwnerID: owner, Name: "Gula aren", PurchasePrice: 50000, PurchaseQty: 100, Unit: "gram"}
	susu := models.Ingredient{OwnerID: owner, Name: "Susu UHT", PurchasePrice: 2100, PurchaseQty: 100, Unit: "ml"}
	require.NoError(t, db.Create(&gula).Error)
	require.NoError(t, db.Create(&susu).Error)

	overhead := 4200.0
	product = models.Product{OwnerID: owner, Name: "Kopi Susu Aren", UserPrice: 15000, Overhead: &overhead}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&[]models.BomLine{
		{ProductID: product.ID, IngredientID: gula.ID, Qty: 10, Unit: "gram"},
		{ProductID: product.ID, IngredientID: susu.ID, Qty: 100, Unit: "ml"},
	}).Error)
	return owner, product
}

func TestGormCatalog_ProductCostEndToEnd(t *testing.T) {
	db := setupCatalogDB(t)
	owner, product := seedKopiSusu(t, db)

	svc := NewHPPService(NewGormCatalog(db), engine.DefaultPolicy(), 2)
	h, err := svc.ProductHPP(context.Background(), owner, product.ID)
	require.NoError(t, err)

	assert.Equal(t, engine.Money(7100), h.HPP.IngredientCost)
	assert.Equal(t, engine.Money(4200), h.HPP.Overhead)
	assert.Equal(t, engine.Money(0), h.HPP.Labor)
	assert.Equal(t, engine.Money(11300), h.HPP.TotalCost)
	require.Len(t, h.HPP.Lines, 2)
	assert.Equal(t, "Gula aren", h.HPP.Lines[0].Name)
}

func TestGormCatalog_IsOwnerScoped(t *testing.T) {
	db := setupCatalogDB(t)
	_, product := seedKopiSusu(t, db)
	cat := NewGormCatalog(db)

	_, err := cat.GetProduct(context.Background(), 99, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	ings, err := cat.GetIngredients(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, ings)

	ings, err = cat.GetIngredients(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, 500.0, ings[0].UnitPrice)
}

func TestHPPService_IngredientsKeyedByID(t *testing.T) {
	db := setupCatalogDB(t)
	owner, _ := seedKopiSusu(t, db)
	svc := NewHPPService(NewGormCatalog(db), engine.DefaultPolicy(), 1)

	ings, err := svc.Ingredients(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, ings, 2)
	for id, ing := range ings {
		assert.Equal(t, id, ing.ID)
	}

	ings, err = svc.Ingredients(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, ings)
}

func TestGormCatalog_MissingAllocationIsZero(t *testing.T) {
	db := setupCatalogDB(t)
	cat := NewGormCatalog(db)

	p := models.Product{OwnerID: 7, Name: "Air Mineral", UserPrice: 4000}
	require.NoError(t, db.Create(&p).Error)

	overhead, err := cat.GetOverheadAllocation(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, overhead)

	labor, err := cat.GetLaborAllocation(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, 0.0, labor)
}

func TestGormCatalog_ProductsByIngredientAndPromos(t *testing.T) {
	db := setupCatalogDB(t)
	owner, product := seedKopiSusu(t, db)
	cat := NewGormCatalog(db)

	var gula models.Ingredient
	require.NoError(t, db.Where("name = ?", "Gula aren").First(&gula).Error)

	ids, err := cat.GetProductIDsByIngredient(context.Background(), gula.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{product.ID}, ids)

	promo := models.Promo{OwnerID: owner, Name: "Paket", Type: "bundle", BundlePrices: []int64{15000, 5000}, ProductIDs: []uint{product.ID}, Active: false}
	require.NoError(t, db.Create(&promo).Error)

	defs, err := cat.GetPromoDefinitions(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, engine.PromoBundle, defs[0].Type)
	assert.Equal(t, []engine.Money{15000, 5000}, defs[0].BundlePrices)
	assert.False(t, defs[0].Active)

	_, err = cat.GetPromo(context.Background(), 99, promo.ID)
	assert.ErrorIs(t, err, ErrPromoNotFound)
}
