package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sigitdim/fortisapp-sub001/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := setupTestDB(t)

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	// idempotent
	assert.NoError(t, Migrate(db))
}

func TestSeed_FillsOnceAndComputesScenario(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(1), users)

	var product models.Product
	require.NoError(t, db.Preload("BomLines.Ingredient").Where("name = ?", "Kopi Susu Aren").First(&product).Error)
	require.Len(t, product.BomLines, 3)
	assert.Equal(t, 4200.0, product.OverheadValue())
	assert.Equal(t, 0.0, product.LaborValue())

	var promos []models.Promo
	require.NoError(t, db.Find(&promos).Error)
	assert.Len(t, promos, 4)
	assert.Equal(t, []int64{18000, 12000}, []int64(promos[2].BundlePrices))
}
