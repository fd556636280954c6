package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/payload"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

type RekapController struct {
	HPP *services.HPPService
}

func NewRekapController(hpp *services.HPPService) *RekapController {
	return &RekapController{HPP: hpp}
}

// GetRekap lists every product with its HPP and margin.
// Query: sort=name|total_cost|margin|user_price, order=asc|desc, q=search.
func (rc *RekapController) GetRekap(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	key, err := engine.ParseRekapSortKey(c.Query("sort"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var desc bool
	switch strings.ToLower(c.DefaultQuery("order", "asc")) {
	case "asc":
	case "desc":
		desc = true
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order must be asc or desc"))
		return
	}

	rows, err := rc.HPP.Rekap(c.Request.Context(), owner, engine.RekapQuery{
		SortBy: key,
		Desc:   desc,
		Search: c.Query("q"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rekap HPP", rows)
}

// SimulateHPP is the live calculator: nothing is stored and unusable
// numbers count as 0.
func (rc *RekapController) SimulateHPP(c *gin.Context) {
	var req payload.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	lines, overhead, labor, price := req.Normalize()
	res, err := rc.HPP.Simulate(lines, overhead, labor, price)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "HPP simulation", res)
}
