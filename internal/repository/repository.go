// Package repository persists recipes, schedules, shelf items and users through gorm.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("record not found")

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
