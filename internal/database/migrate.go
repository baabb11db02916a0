package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/weekprep/backend/internal/model"
)

// Models lists every table managed by the service.
var Models = []interface{}{
	&model.User{},
	&model.Recipe{},
	&model.ShelfItem{},
	&model.ScheduleRecord{},
}

// AutoMigrate creates or updates the schema. PostgreSQL needs the vector
// extension before the recipes table can be created.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
