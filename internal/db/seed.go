package database

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venue-pulse/internal/models"
)

// SeedVenues registers the demo venues so a fresh install has
// something to score against
func SeedVenues(db *gorm.DB) {
	venues := []models.Venue{
		{
			ID:       "blue-door",
			Name:     "Blue Door",
			City:     "Berlin",
			Capacity: 180,
			Timezone: "Europe/Berlin",
		},
		{
			ID:       "casa-ritmo",
			Name:     "Casa Ritmo",
			City:     "Barcelona",
			Capacity: 120,
			Timezone: "Europe/Madrid",
		},
		{
			ID:       "harbor-lights",
			Name:     "Harbor Lights",
			City:     "Rotterdam",
			Timezone: "Europe/Amsterdam",
			// Capacity unknown: the scorer falls back to peak occupancy
		},
	}

	log.Printf("🌱 Seeding %d Venues...", len(venues))
	for _, v := range venues {
		// UPSERT based on 'ID' to prevent duplicates on restart
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true, // If it exists, leave it alone.
		}).Create(&v)
	}
}
