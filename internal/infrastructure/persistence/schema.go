package persistence

import (
	"fmt"

	"github.com/MrJorgx/PracticasExt/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the ledger tables from the persistence models.
// clientes must exist before recibos because of the foreign key.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ClienteModel{}, &models.ReciboModel{}); err != nil {
		return fmt.Errorf("auto migrate ledger schema: %w", err)
	}
	return nil
}
