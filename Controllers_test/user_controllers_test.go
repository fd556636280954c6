package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)

	// --- Register ---
	w, res := env.do(t, "POST", "/register", "", map[string]string{
		"name":     "Bu Sari",
		"email":    "Sari@Warung.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, res.Message)
	assert.True(t, res.Status)

	// email disimpan lowercase, jadi tidak boleh daftar dua kali
	w, _ = env.do(t, "POST", "/register", "", map[string]string{
		"name":     "Bu Sari",
		"email":    "sari@warung.id",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// --- Login ---
	w, res = env.do(t, "POST", "/login", "", map[string]string{
		"email":    "sari@warung.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, res.Message)

	var login struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decodeData(t, res, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "owner", login.UserRole)

	// --- Profile ---
	w, res = env.do(t, "GET", "/api/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]interface{}
	decodeData(t, res, &profile)
	assert.Equal(t, "sari@warung.id", profile["email"])
	assert.NotContains(t, profile, "password")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupEnv(t)
	env.createOwner(t, "owner@warung.id")

	w, res := env.do(t, "POST", "/login", "", map[string]string{
		"email":    "owner@warung.id",
		"password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, res.Status)
}

func TestRegister_Validation(t *testing.T) {
	env := setupEnv(t)

	w, _ := env.do(t, "POST", "/register", "", map[string]string{
		"name":     "x",
		"email":    "bukan-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	env := setupEnv(t)

	w, _ := env.do(t, "GET", "/api/ingredients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, "GET", "/api/ingredients", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
