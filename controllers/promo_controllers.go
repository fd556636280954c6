package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/payload"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

// PromoNotifier receives saved or deleted promos.
type PromoNotifier interface {
	BroadcastPromoUpdate(ownerID uint, data interface{})
}

type PromoController struct {
	DB       *gorm.DB
	HPP      *services.HPPService
	Notifier PromoNotifier
}

func NewPromoController(db *gorm.DB, hpp *services.HPPService, notifier PromoNotifier) *PromoController {
	return &PromoController{DB: db, HPP: hpp, Notifier: notifier}
}

func (pc *PromoController) find(c *gin.Context, owner uint) (models.Promo, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return models.Promo{}, false
	}
	var p models.Promo
	err := pc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondErr(c, fmt.Errorf("promo %d: %w", id, services.ErrPromoNotFound))
		return models.Promo{}, false
	}
	if err != nil {
		respondErr(c, err)
		return models.Promo{}, false
	}
	return p, true
}

func (pc *PromoController) notify(owner uint, data interface{}) {
	if pc.Notifier != nil {
		pc.Notifier.BroadcastPromoUpdate(owner, data)
	}
}

func (pc *PromoController) GetAllPromos(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var promos []models.Promo
	if err := pc.DB.WithContext(c.Request.Context()).
		Where("owner_id = ?", owner).
		Order("id ASC").
		Find(&promos).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of promos", promos)
}

func (pc *PromoController) GetPromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo detail", p)
}

// CreatePromo rejects unknown promo types with 422.
func (pc *PromoController) CreatePromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req payload.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	def, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	p := models.NewPromo(owner, def)
	if err := pc.DB.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		respondErr(c, err)
		return
	}
	pc.notify(owner, p)
	utils.RespondJSON(c, http.StatusCreated, "Promo created", p)
}

func (pc *PromoController) UpdatePromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner)
	if !ok {
		return
	}

	var req payload.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	def, err := req.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	p.Apply(def)
	if err := pc.DB.WithContext(c.Request.Context()).Save(&p).Error; err != nil {
		respondErr(c, err)
		return
	}
	pc.notify(owner, p)
	utils.RespondJSON(c, http.StatusOK, "Promo updated", p)
}

func (pc *PromoController) DeletePromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	p, ok := pc.find(c, owner)
	if !ok {
		return
	}

	if err := pc.DB.WithContext(c.Request.Context()).Delete(&p).Error; err != nil {
		respondErr(c, err)
		return
	}
	pc.notify(owner, gin.H{"id": p.ID, "deleted": true})
	utils.RespondJSON(c, http.StatusOK, "Promo deleted", nil)
}

// EvaluatePromo runs a stored promo against one product.
func (pc *PromoController) EvaluatePromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req payload.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	base, err := req.Base()
	if err != nil {
		respondInput(c, err)
		return
	}

	ev, err := pc.HPP.EvaluatePromo(c.Request.Context(), owner, id, req.ProductID, base)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo evaluated", ev)
}

// SimulatePromo evaluates a definition without saving it.
func (pc *PromoController) SimulatePromo(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req payload.SimulatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInput(c, err)
		return
	}
	base, err := req.Base()
	if err != nil {
		respondInput(c, err)
		return
	}
	def, err := req.Promo.Normalize()
	if err != nil {
		respondInput(c, err)
		return
	}

	ev, err := pc.HPP.SimulatePromo(c.Request.Context(), owner, req.ProductID, def, base)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo simulated", ev)
}
