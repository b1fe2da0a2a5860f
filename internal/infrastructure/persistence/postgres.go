package persistence

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"staysync-service/internal/interface/repository"
)

// NewPostgresDB opens the PostgreSQL connection and migrates the
// engine's tables
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&repository.Properties{},
		&repository.CalendarDates{},
		&repository.Bookings{},
		&repository.ExternalCalendarFeeds{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
