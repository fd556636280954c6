package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/models"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrPromoNotFound   = errors.New("promo not found")
)

// ProductSummary is the product header the pricing views need.
type ProductSummary struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	UserPrice engine.Money `json:"user_price"`
}

// CatalogReader is the read side of the operator's master data. All reads
// are scoped by the caller; the engine never touches storage.
type CatalogReader interface {
	GetIngredients(ctx context.Context, ownerID uint) ([]engine.Ingredient, error)
	GetProducts(ctx context.Context, ownerID uint) ([]ProductSummary, error)
	GetProduct(ctx context.Context, ownerID, productID uint) (ProductSummary, error)
	GetProductIDsByIngredient(ctx context.Context, ingredientID uint) ([]uint, error)
	GetBomLines(ctx context.Context, productID uint) ([]engine.BomLine, error)
	GetOverheadAllocation(ctx context.Context, productID uint) (float64, error)
	GetLaborAllocation(ctx context.Context, productID uint) (float64, error)
	GetPromoDefinitions(ctx context.Context, ownerID uint) ([]engine.PromoDefinition, error)
	GetPromo(ctx context.Context, ownerID, promoID uint) (engine.PromoDefinition, error)
}

// GormCatalog reads the catalog through gorm.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetIngredients(ctx context.Context, ownerID uint) ([]engine.Ingredient, error) {
	var rows []models.Ingredient
	if err := c.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	out := make([]engine.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = r.ToEngine()
	}
	return out, nil
}

func (c *GormCatalog) GetProducts(ctx context.Context, ownerID uint) ([]ProductSummary, error) {
	var rows []models.Product
	if err := c.db.WithContext(ctx).
		Select("id", "name", "user_price").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]ProductSummary, len(rows))
	for i, r := range rows {
		out[i] = summarize(r)
	}
	return out, nil
}

func (c *GormCatalog) GetProduct(ctx context.Context, ownerID, productID uint) (ProductSummary, error) {
	var p models.Product
	err := c.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", productID, ownerID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductSummary{}, ErrProductNotFound
	}
	if err != nil {
		return ProductSummary{}, fmt.Errorf("load product %d: %w", productID, err)
	}
	return summarize(p), nil
}

func (c *GormCatalog) GetProductIDsByIngredient(ctx context.Context, ingredientID uint) ([]uint, error) {
	var ids []uint
	if err := c.db.WithContext(ctx).
		Model(&models.BomLine{}).
		Where("ingredient_id = ?", ingredientID).
		Distinct().
		Pluck("product_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load products using ingredient %d: %w", ingredientID, err)
	}
	return ids, nil
}

// GetBomLines resolves every line's ingredient unit price.
func (c *GormCatalog) GetBomLines(ctx context.Context, productID uint) ([]engine.BomLine, error) {
	var rows []models.BomLine
	if err := c.db.WithContext(ctx).
		Preload("Ingredient").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bom for product %d: %w", productID, err)
	}
	out := make([]engine.BomLine, len(rows))
	for i, r := range rows {
		out[i] = r.ToEngine()
	}
	return out, nil
}

// GetOverheadAllocation returns 0 when nothing was allocated.
func (c *GormCatalog) GetOverheadAllocation(ctx context.Context, productID uint) (float64, error) {
	p, err := c.allocations(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.OverheadValue(), nil
}

// GetLaborAllocation returns 0 when nothing was allocated.
func (c *GormCatalog) GetLaborAllocation(ctx context.Context, productID uint) (float64, error) {
	p, err := c.allocations(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.LaborValue(), nil
}

func (c *GormCatalog) allocations(ctx context.Context, productID uint) (models.Product, error) {
	var p models.Product
	err := c.db.WithContext(ctx).
		Select("id", "overhead", "labor").
		First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, nil
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("load allocations for product %d: %w", productID, err)
	}
	return p, nil
}

func (c *GormCatalog) GetPromoDefinitions(ctx context.Context, ownerID uint) ([]engine.PromoDefinition, error) {
	var rows []models.Promo
	if err := c.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load promos: %w", err)
	}
	out := make([]engine.PromoDefinition, len(rows))
	for i, r := range rows {
		out[i] = r.ToEngine()
	}
	return out, nil
}

func (c *GormCatalog) GetPromo(ctx context.Context, ownerID, promoID uint) (engine.PromoDefinition, error) {
	var p models.Promo
	err := c.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", promoID, ownerID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.PromoDefinition{}, ErrPromoNotFound
	}
	if err != nil {
		return engine.PromoDefinition{}, fmt.Errorf("load promo %d: %w", promoID, err)
	}
	return p.ToEngine(), nil
}

func summarize(p models.Product) ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, UserPrice: engine.Money(p.UserPrice)}
}
