package storage

import (
	"context"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create stores a review. The schema enforces one review per user per
// boardgame, so a duplicate surfaces as a constraint error.
func (r *ReviewRepository) Create(ctx context.Context, review *Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "review.create", "failed to create review", err)
	}
	return nil
}

func (r *ReviewRepository) ListByBoardgame(ctx context.Context, boardgameID uint) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).Where("boardgame_id = ?", boardgameID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "review.list_by_boardgame", "failed to list reviews", err)
	}
	return reviews, nil
}

// AverageRating returns the mean rating for a boardgame and the number of
// reviews behind it. Zero reviews yields (0, 0, nil).
func (r *ReviewRepository) AverageRating(ctx context.Context, boardgameID uint) (float64, int64, error) {
	var result struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("boardgame_id = ?", boardgameID).Scan(&result).Error
	if err != nil {
		return 0, 0, errors.Wrap(errors.KindStorage, "review.average_rating", "failed to aggregate ratings", err)
	}
	return result.Average, result.Count, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*Review, error) {
	var review Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "review.find_by_id", "failed to find review", err)
	}
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&Review{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "review.delete", "failed to delete review", err)
	}
	return nil
}
