package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sigitdim/fortisapp-sub001/config"
	"github.com/sigitdim/fortisapp-sub001/database"
	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/realtime"
	"github.com/sigitdim/fortisapp-sub001/router"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	Hub    *realtime.Hub
}

// setupTestDB menggunakan SQLite in-memory, satu database per test
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret", 0)

	db := setupTestDB(t)
	cfg := &config.Config{
		App:    config.AppConfig{Port: "0", RekapWorkers: 4},
		Policy: engine.DefaultPolicy(),
	}
	hub := realtime.NewHub()
	hpp := services.NewHPPService(services.NewGormCatalog(db), cfg.Policy, cfg.App.RekapWorkers).WithNotifier(hub)

	return &testEnv{DB: db, Router: router.SetupRouter(db, cfg, hpp, hub), Hub: hub}
}

// createOwner inserts a user directly and returns a bearer token for it.
func (e *testEnv) createOwner(t *testing.T, email string) (uint, string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Owner", Email: email, Password: string(hashed), Role: models.RoleOwner}
	require.NoError(t, e.DB.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

// seedKopiSusu creates the gula aren + susu UHT composition whose HPP is
// 7.100 ingredients + 4.200 overhead = 11.300.
func (e *testEnv) seedKopiSusu(t *testing.T, token string) (productID uint, gulaID uint) {
	var gula, susu struct {
		ID uint `json:"id"`
	}
	w, env := e.do(t, "POST", "/api/ingredients", token, `{"name":"Gula aren","purchase_price":"Rp 50.000","purchase_qty":100,"unit":"gram"}`)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	decodeData(t, env, &gula)

	w, env = e.do(t, "POST", "/api/ingredients", token, `{"name":"Susu UHT","purchase_price":2100,"purchase_qty":"100","unit":"ml"}`)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	decodeData(t, env, &susu)

	var product struct {
		ID uint `json:"id"`
	}
	w, env = e.do(t, "POST", "/api/products", token, `{"name":"Kopi Susu Aren","user_price":15000,"overhead":"4.200"}`)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	decodeData(t, env, &product)

	w, env = e.do(t, "PUT", pathf("/api/products/%d/bom", product.ID), token, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"ingredient_id": gula.ID, "qty": 10, "unit": "gram"},
			{"ingredient_id": susu.ID, "qty": "100", "unit": "ml"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	return product.ID, gula.ID
}

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
