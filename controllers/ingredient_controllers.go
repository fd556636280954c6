package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/payload"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

// IngredientController owns the bahan master data. Price changes reach
// websocket clients through services.ChangeMonitor, which follows the
// price history this controller writes.
type IngredientController struct {
	DB *gorm.DB
}

func NewIngredientController(db *gorm.DB) *IngredientController {
	return &IngredientController{DB: db}
}

// ingredientView adds the derived unit price to a stored ingredient.
type ingredientView struct {
	models.Ingredient
	UnitPrice float64 `json:"unit_price"`
	Display   string  `json:"display_price"`
}

func viewOf(i models.Ingredient) ingredientView {
	return ingredientView{
		Ingredient: i,
		UnitPrice:  i.UnitPrice(),
		Display:    utils.FormatRupiah(i.PurchasePrice),
	}
}

func (ic *IngredientController) find(c *gin.Context, owner uint) (models.Ingredient, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return models.Ingredient{}, false
	}
	var ing models.Ingredient
	err := ic.DB.WithContext(c.Request.Context()).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondErr(c, fmt.Errorf("ingredient %d: %w", id, ErrNotFound))
		return models.Ingredient{}, false
	}
	if err != nil {
		respondErr(c, err)
		return models.Ingredient{}, false
	}
	return ing, true
}

func (ic *IngredientController) GetAllIngredients(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var rows []models.Ingredient
	if err := ic.DB.WithContext(c.Request.Context()).
		Where("owner_id = ?", owner).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		respondErr(c, err)
		return
	}

	out := make([]ingredientView, len(rows))
	for i, r := range rows {
		out[i] = viewOf(r)
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", out)
}

func (ic *IngredientController) GetIngredient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	ing, ok := ic.find(c, owner)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient detail", viewOf(ing))
}

func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req payload.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	in, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	ing := models.Ingredient{
		OwnerID:       owner,
		Name:          in.Name,
		PurchasePrice: in.PurchasePrice,
		PurchaseQty:   in.PurchaseQty,
		Unit:          in.Unit,
	}
	if err := ic.DB.WithContext(c.Request.Context()).Create(&ing).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", viewOf(ing))
}

// UpdateIngredient replaces every field. A changed price or purchase quantity
// is logged to the price history like a PATCH .../price.
func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	ing, ok := ic.find(c, owner)
	if !ok {
		return
	}

	var req payload.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	in, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	ing.Name = in.Name
	ing.Unit = in.Unit
	if err := ic.savePrice(c, owner, &ing, in.PurchasePrice, in.PurchaseQty); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient updated", viewOf(ing))
}

// UpdatePrice is the explicit price-change event.
func (ic *IngredientController) UpdatePrice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	ing, ok := ic.find(c, owner)
	if !ok {
		return
	}

	var req payload.PriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	price, qty, err := req.Normalize(ing.PurchaseQty)
	if err != nil {
		respondInput(c, err)
		return
	}

	if err := ic.savePrice(c, owner, &ing, price, qty); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient price updated", viewOf(ing))
}

func (ic *IngredientController) savePrice(c *gin.Context, owner uint, ing *models.Ingredient, price int64, qty float64) error {
	oldPrice, oldQty := ing.PurchasePrice, ing.PurchaseQty
	ing.PurchasePrice = price
	ing.PurchaseQty = qty
	changed := oldPrice != price || oldQty != qty

	return ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ing).Error; err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Create(&models.IngredientPriceHistory{
			IngredientID: ing.ID,
			OldPrice:     oldPrice,
			NewPrice:     price,
			OldQty:       oldQty,
			NewQty:       qty,
			ChangedBy:    owner,
			ChangedAt:    time.Now(),
		}).Error
	})
}

func (ic *IngredientController) GetPriceHistory(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	ing, ok := ic.find(c, owner)
	if !ok {
		return
	}

	var history []models.IngredientPriceHistory
	if err := ic.DB.WithContext(c.Request.Context()).
		Where("ingredient_id = ?", ing.ID).
		Order("changed_at DESC, id DESC").
		Find(&history).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient price history", history)
}

// DeleteIngredient refuses ingredients still used by a product.
func (ic *IngredientController) DeleteIngredient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	ing, ok := ic.find(c, owner)
	if !ok {
		return
	}

	var used int64
	if err := ic.DB.WithContext(c.Request.Context()).
		Model(&models.BomLine{}).
		Where("ingredient_id = ?", ing.ID).
		Count(&used).Error; err != nil {
		respondErr(c, err)
		return
	}
	if used > 0 {
		respondErr(c, fmt.Errorf("ingredient %q is used by %d composition line(s): %w", ing.Name, used, ErrInUse))
		return
	}

	err := ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", ing.ID).Delete(&models.IngredientPriceHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ing).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient deleted", nil)
}
