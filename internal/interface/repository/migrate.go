package repository

import (
	"gorm.io/gorm"
)

// Migrate creates or updates the relational tables the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RosterUploads{},
		&LogbookEntries{},
		&LogbookFlights{},
	)
}
