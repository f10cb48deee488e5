package storage

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/platform/errors"
)

var seedRoles = []string{"ADMIN", "EMPLOYEE", "USER", "CUSTOMER"}

// Seed inserts the baseline data a fresh database needs: the role catalogue,
// an administrator account, and a small set of publishers and boardgames.
// It is idempotent; rows that already exist are left untouched.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range seedRoles {
			role := Role{Name: name, Active: true}
			err := tx.Where(Role{Name: name}).FirstOrCreate(&role).Error
			if err != nil {
				return errors.Wrap(errors.KindStorage, "seed.roles", "failed to seed role", err)
			}
		}

		if err := seedAdmin(tx); err != nil {
			return err
		}
		return seedCatalogue(tx)
	})
}

func seedAdmin(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&User{}).Where("username = ?", "Ruthger").Count(&count).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.admin", "failed to check admin user", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return errors.Wrap(errors.KindStorage, "seed.admin", "failed to hash admin password", err)
	}

	var roles []Role
	if err := tx.Where("name IN ?", []string{"ADMIN", "USER"}).Find(&roles).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.admin", "failed to load admin roles", err)
	}

	admin := User{
		Username:     "Ruthger",
		PasswordHash: hash,
		Nickname:     "Ruthger",
		Enabled:      true,
		Roles:        roles,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.admin", "failed to create admin user", err)
	}
	return nil
}

func seedCatalogue(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&Publisher{}).Count(&count).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.catalogue", "failed to count publishers", err)
	}
	if count > 0 {
		return nil
	}

	publishers := []Publisher{
		{Name: "Days of Wonder", Country: "France", FoundedYear: 2002, Website: "https://www.daysofwonder.com"},
		{Name: "Stonemaier Games", Country: "United States", FoundedYear: 2012, Website: "https://stonemaiergames.com"},
		{Name: "999 Games", Country: "Netherlands", FoundedYear: 1990, Website: "https://www.999games.nl"},
	}
	if err := tx.Create(&publishers).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.catalogue", "failed to seed publishers", err)
	}

	games := []Boardgame{
		{
			Name:            "Ticket to Ride",
			Description:     "Cross-country train adventure for the whole table.",
			MinPlayers:      2,
			MaxPlayers:      5,
			PlaytimeMinutes: 60,
			PriceCents:      4499,
			Stock:           6,
			PublisherID:     publishers[0].ID,
			Attributes:      datatypes.JSON([]byte(`{"category":"family","weight":1.8}`)),
		},
		{
			Name:            "Wingspan",
			Description:     "Engine builder about attracting birds to your preserve.",
			MinPlayers:      1,
			MaxPlayers:      5,
			PlaytimeMinutes: 70,
			PriceCents:      5999,
			Stock:           4,
			PublisherID:     publishers[1].ID,
			Attributes:      datatypes.JSON([]byte(`{"category":"strategy","weight":2.4}`)),
		},
		{
			Name:            "Catan",
			Description:     "Trade, build and settle the island of Catan.",
			MinPlayers:      3,
			MaxPlayers:      4,
			PlaytimeMinutes: 90,
			PriceCents:      3999,
			Stock:           8,
			PublisherID:     publishers[2].ID,
			Attributes:      datatypes.JSON([]byte(`{"category":"classic","weight":2.3}`)),
		},
	}
	if err := tx.Create(&games).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "seed.catalogue", "failed to seed boardgames", err)
	}
	return nil
}
