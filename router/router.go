package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/config"
	"github.com/sigitdim/fortisapp-sub001/controllers"
	"github.com/sigitdim/fortisapp-sub001/middlewares"
	"github.com/sigitdim/fortisapp-sub001/realtime"
	"github.com/sigitdim/fortisapp-sub001/services"
	"gorm.io/gorm"
)

// SetupRouter wires every route. hub may be nil, in which case
// realtime.Default() is used.
func SetupRouter(db *gorm.DB, cfg *config.Config, hpp *services.HPPService, hub *realtime.Hub) *gin.Engine {
	if hub == nil {
		hub = realtime.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.App.AllowedOrigin))

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	ingredientCtrl := controllers.NewIngredientController(db)
	productCtrl := controllers.NewProductController(db, hpp)
	promoCtrl := controllers.NewPromoController(db, hpp, hub)
	rekapCtrl := controllers.NewRekapController(hpp)
	wsCtrl := controllers.NewWSController(hub, cfg.App.AllowedOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), wsCtrl.Handle)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)

	// BAHAN
	api.GET("/ingredients", ingredientCtrl.GetAllIngredients)
	api.POST("/ingredients", ingredientCtrl.CreateIngredient)
	api.GET("/ingredients/:id", ingredientCtrl.GetIngredient)
	api.PUT("/ingredients/:id", ingredientCtrl.UpdateIngredient)
	api.DELETE("/ingredients/:id", ingredientCtrl.DeleteIngredient)
	api.PATCH("/ingredients/:id/price", ingredientCtrl.UpdatePrice)
	api.GET("/ingredients/:id/price-history", ingredientCtrl.GetPriceHistory)

	// PRODUK
	api.GET("/products", productCtrl.GetAllProducts)
	api.POST("/products", productCtrl.CreateProduct)
	api.GET("/products/:id", productCtrl.GetProduct)
	api.PUT("/products/:id", productCtrl.UpdateProduct)
	api.DELETE("/products/:id", productCtrl.DeleteProduct)
	api.PUT("/products/:id/bom", productCtrl.ReplaceBom)
	api.PUT("/products/:id/allocations", productCtrl.UpdateAllocations)
	api.GET("/products/:id/hpp", productCtrl.GetHPP)
	api.GET("/products/:id/recommendation", productCtrl.GetRecommendation)
	api.GET("/products/:id/profit", productCtrl.GetProfit)
	api.GET("/products/:id/promos", productCtrl.GetActivePromos)

	// PROMO
	api.GET("/promos", promoCtrl.GetAllPromos)
	api.POST("/promos", promoCtrl.CreatePromo)
	api.POST("/promos/simulate", promoCtrl.SimulatePromo)
	api.GET("/promos/:id", promoCtrl.GetPromo)
	api.PUT("/promos/:id", promoCtrl.UpdatePromo)
	api.DELETE("/promos/:id", promoCtrl.DeletePromo)
	api.POST("/promos/:id/evaluate", promoCtrl.EvaluatePromo)

	// REKAP
	api.GET("/rekap", rekapCtrl.GetRekap)
	api.POST("/hpp/simulate", rekapCtrl.SimulateHPP)

	return r
}
