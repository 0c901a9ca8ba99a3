package persistence

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgres opens the relational database used for uploads and the logbook.
func NewPostgres(uri string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(uri), &gorm.Config{})
}
