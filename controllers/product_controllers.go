package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/payload"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

type ProductController struct {
	DB  *gorm.DB
	HPP *services.HPPService
}

func NewProductController(db *gorm.DB, hpp *services.HPPService) *ProductController {
	return &ProductController{DB: db, HPP: hpp}
}

func (pc *ProductController) find(c *gin.Context, owner uint, preload bool) (models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return models.Product{}, false
	}
	q := pc.DB.WithContext(c.Request.Context())
	if preload {
		q = q.Preload("BomLines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Preload("BomLines.Ingredient")
	}
	var p models.Product
	err := q.Where("id = ? AND owner_id = ?", id, owner).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondErr(c, fmt.Errorf("product %d: %w", id, services.ErrProductNotFound))
		return models.Product{}, false
	}
	if err != nil {
		respondErr(c, err)
		return models.Product{}, false
	}
	return p, true
}

func (pc *ProductController) GetAllProducts(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := pc.DB.WithContext(c.Request.Context()).
		Where("owner_id = ?", owner).
		Order("name ASC").
		Find(&products).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner, true)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", p)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req payload.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	in, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	p := models.Product{
		OwnerID:   owner,
		Name:      in.Name,
		UserPrice: in.UserPrice,
		Overhead:  in.Overhead,
		Labor:     in.Labor,
	}
	if err := pc.DB.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", p)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner, false)
	if !ok {
		return
	}

	var req payload.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	in, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	p.Name = in.Name
	p.UserPrice = in.UserPrice
	p.Overhead = in.Overhead
	p.Labor = in.Labor
	if err := pc.DB.WithContext(c.Request.Context()).Save(&p).Error; err != nil {
		respondErr(c, err)
		return
	}

	pc.HPP.NotifyProducts(c.Request.Context(), owner, p.ID)
	utils.RespondJSON(c, http.StatusOK, "Product updated", p)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner, false)
	if !ok {
		return
	}

	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.BomLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

// ReplaceBom swaps the whole composition of a product and returns the new HPP.
// A line without a unit takes the ingredient's purchase unit.
func (pc *ProductController) ReplaceBom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner, false)
	if !ok {
		return
	}

	var req payload.BomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	lines, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	ingredients, err := pc.HPP.Ingredients(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	for i, l := range lines {
		ing, known := ingredients[l.IngredientID]
		if !known {
			respondErr(c, fmt.Errorf("ingredient %d: %w", l.IngredientID, ErrNotFound))
			return
		}
		if l.Unit == "" {
			lines[i].Unit = ing.Unit
		}
	}

	err = pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.BomLine{}).Error; err != nil {
			return err
		}
		for _, l := range lines {
			row := models.BomLine{ProductID: p.ID, IngredientID: l.IngredientID, Qty: l.Qty, Unit: l.Unit}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	pc.respondHPP(c, owner, p.ID, "Composition updated")
}

// UpdateAllocations sets overhead and labor. An omitted allocation is cleared
// and counts as 0.
func (pc *ProductController) UpdateAllocations(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner, false)
	if !ok {
		return
	}

	var req payload.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	alloc, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	if err := pc.DB.WithContext(c.Request.Context()).
		Model(&p).
		Select("overhead", "labor").
		Updates(map[string]interface{}{"overhead": alloc.Overhead, "labor": alloc.Labor}).Error; err != nil {
		respondErr(c, err)
		return
	}

	pc.respondHPP(c, owner, p.ID, "Allocations updated")
}

// respondHPP recomputes, pushes hpp_update and answers with the snapshot.
func (pc *ProductController) respondHPP(c *gin.Context, owner, productID uint, message string) {
	h, err := pc.HPP.ProductHPP(c.Request.Context(), owner, productID)
	if err != nil {
		respondErr(c, err)
		return
	}
	pc.HPP.NotifyProducts(c.Request.Context(), owner, productID)
	utils.RespondJSON(c, http.StatusOK, message, h)
}

func (pc *ProductController) GetHPP(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	h, err := pc.HPP.ProductHPP(c.Request.Context(), owner, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product HPP", h)
}

func (pc *ProductController) GetRecommendation(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	rec, err := pc.HPP.Recommendation(c.Request.Context(), owner, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Price recommendation", rec)
}

// GetProfit reads ?price= (defaults to the product's selling price),
// ?tax= and ?channel= (booleans).
func (pc *ProductController) GetProfit(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var price *engine.Money
	if raw, exists := c.GetQuery("price"); exists {
		v, err := payload.NewNumber(raw).Money("price")
		if err != nil {
			respondInput(c, err)
			return
		}
		m := engine.Money(v)
		price = &m
	}
	tax, err := boolQuery(c, "tax")
	if err != nil {
		respondInput(c, err)
		return
	}
	channel, err := boolQuery(c, "channel")
	if err != nil {
		respondInput(c, err)
		return
	}

	view, err := pc.HPP.Profit(c.Request.Context(), owner, id, price, tax, channel)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profit view", view)
}

// GetActivePromos evaluates every promo currently running for the product.
func (pc *ProductController) GetActivePromos(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	evs, err := pc.HPP.ActivePromos(c.Request.Context(), owner, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active promos", evs)
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return v, nil
}
