package database

import (
	"fmt"

	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	utils.InfoLogger.Println("Starting GORM AutoMigrate...")
	for _, model := range models.AllModels() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrate %T: %w", model, err)
		}
	}
	utils.InfoLogger.Println("GORM AutoMigrate completed")
	return nil
}
