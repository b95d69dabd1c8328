package db

import (
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
