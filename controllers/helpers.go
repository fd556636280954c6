package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/middlewares"
	"github.com/sigitdim/fortisapp-sub001/payload"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrInUse    = errors.New("record is still in use")
)

// ownerID aborts with 401 when the request carries no user.
func ownerID(c *gin.Context) (uint, bool) {
	id, ok := middlewares.UserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return 0, false
	}
	return id, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnsupportedPromoType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidNumericInput), errors.Is(err, payload.ErrMissingParam):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrPromoNotFound),
		errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondErr maps domain errors to status codes. Anything unknown is a 500
// and gets logged.
func respondErr(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
	}
	utils.RespondError(c, code, err)
}

// respondInput is respondErr for payload validation, where unknown errors
// are the client's fault.
func respondInput(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		code = http.StatusBadRequest
	}
	utils.RespondError(c, code, err)
}
