package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/infrastructure/config"
	"staysync-service/internal/infrastructure/persistence"
	"staysync-service/internal/interface/repository"
)

// Development seeding tool: creates a property with default settings
// and, optionally, one external calendar feed pointing at the given
// ICS URL.
func main() {
	title := flag.String("title", "Demo property", "property title")
	price := flag.Float64("price", 100, "default nightly price")
	minStay := flag.Int("min-stay", 1, "default minimum stay in nights")
	feedName := flag.String("feed-name", "", "optional feed source label, e.g. Airbnb")
	feedURL := flag.String("feed-url", "", "optional feed ICS URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}

	ctx := context.Background()
	propertyRepo := repository.NewGormPropertyRepository(db)
	feedRepo := repository.NewGormFeedRepository(db)

	property := &entity.Property{
		ID:             uuid.New().String(),
		Title:          *title,
		DefaultPrice:   *price,
		DefaultMinStay: *minStay,
		Currency:       "USD",
		IsActive:       true,
	}
	if err := propertyRepo.Save(ctx, property); err != nil {
		log.Fatalf("creating property: %v", err)
	}
	log.Printf("created property %s (%s)", property.ID, property.Title)

	if *feedName != "" && *feedURL != "" {
		feed := &entity.ExternalCalendarFeed{
			ID:         uuid.New().String(),
			PropertyID: property.ID,
			Name:       *feedName,
			URL:        *feedURL,
			IsActive:   true,
			SyncStatus: entity.SyncPending,
		}
		if err := feedRepo.Create(ctx, feed); err != nil {
			log.Fatalf("creating feed: %v", err)
		}
		log.Printf("created feed %s (%s)", feed.ID, feed.Name)
	}
}
