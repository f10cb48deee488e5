package storage

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

// BoardgameFilter narrows List results. Zero values mean "no constraint".
type BoardgameFilter struct {
	Name        string
	PublisherID uint
	InStock     bool
	Limit       int
	Offset      int
}

type BoardgameRepository struct {
	db *gorm.DB
}

func NewBoardgameRepository(db *gorm.DB) *BoardgameRepository {
	return &BoardgameRepository{db: db}
}

func (r *BoardgameRepository) List(ctx context.Context, filter BoardgameFilter) ([]Boardgame, error) {
	query := r.db.WithContext(ctx).Preload("Publisher").Order("name")
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if filter.PublisherID != 0 {
		query = query.Where("publisher_id = ?", filter.PublisherID)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var games []Boardgame
	if err := query.Find(&games).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "boardgame.list", "failed to list boardgames", err)
	}
	return games, nil
}

func (r *BoardgameRepository) FindByID(ctx context.Context, id uint) (*Boardgame, error) {
	var game Boardgame
	if err := r.db.WithContext(ctx).Preload("Publisher").First(&game, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "boardgame.find_by_id", "failed to find boardgame", err)
	}
	return &game, nil
}

func (r *BoardgameRepository) Create(ctx context.Context, game *Boardgame) error {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "boardgame.create", "failed to create boardgame", err)
	}
	return nil
}

func (r *BoardgameRepository) Update(ctx context.Context, game *Boardgame) error {
	if err := r.db.WithContext(ctx).Save(game).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "boardgame.update", "failed to update boardgame", err)
	}
	return nil
}

// UpdateCover stores the paths of an uploaded cover image and its thumbnail.
func (r *BoardgameRepository) UpdateCover(ctx context.Context, id uint, cover, thumbnail string) error {
	err := r.db.WithContext(ctx).Model(&Boardgame{}).Where("id = ?", id).
		Updates(map[string]any{"cover_image": cover, "thumbnail": thumbnail}).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "boardgame.update_cover", "failed to update cover", err)
	}
	return nil
}

// Delete soft-deletes the boardgame so existing reservations keep a valid
// reference.
func (r *BoardgameRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&Boardgame{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "boardgame.delete", "failed to delete boardgame", err)
	}
	return nil
}
