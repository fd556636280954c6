package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/config"
	"github.com/sigitdim/fortisapp-sub001/database"
	"github.com/sigitdim/fortisapp-sub001/realtime"
	"github.com/sigitdim/fortisapp-sub001/router"
	"github.com/sigitdim/fortisapp-sub001/services"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	// .env may have set LOG_FORMAT / LOG_LEVEL
	utils.InitLogger()
	utils.SetJWTSecret(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.App.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if cfg.App.SeedDemo {
		if err := database.Seed(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	hub := realtime.Default()
	hpp := services.NewHPPService(services.NewGormCatalog(db), cfg.Policy, cfg.App.RekapWorkers).
		WithNotifier(hub)

	monitor := services.NewChangeMonitor(db, hpp, hub)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db, cfg, hpp, hub)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
