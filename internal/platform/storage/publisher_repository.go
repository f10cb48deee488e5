package storage

import (
	"context"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

type PublisherRepository struct {
	db *gorm.DB
}

func NewPublisherRepository(db *gorm.DB) *PublisherRepository {
	return &PublisherRepository{db: db}
}

func (r *PublisherRepository) List(ctx context.Context) ([]Publisher, error) {
	var publishers []Publisher
	if err := r.db.WithContext(ctx).Order("name").Find(&publishers).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "publisher.list", "failed to list publishers", err)
	}
	return publishers, nil
}

func (r *PublisherRepository) FindByID(ctx context.Context, id uint) (*Publisher, error) {
	var publisher Publisher
	if err := r.db.WithContext(ctx).First(&publisher, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "publisher.find_by_id", "failed to find publisher", err)
	}
	return &publisher, nil
}

func (r *PublisherRepository) Create(ctx context.Context, publisher *Publisher) error {
	if err := r.db.WithContext(ctx).Create(publisher).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "publisher.create", "failed to create publisher", err)
	}
	return nil
}

func (r *PublisherRepository) Update(ctx context.Context, publisher *Publisher) error {
	if err := r.db.WithContext(ctx).Save(publisher).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "publisher.update", "failed to update publisher", err)
	}
	return nil
}

// Delete refuses to remove a publisher that still has boardgames attached.
func (r *PublisherRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Boardgame{}).Where("publisher_id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "publisher.delete", "failed to count boardgames", err)
		}
		if count > 0 {
			return errors.New(errors.KindDomain, "publisher.delete", "publisher still has boardgames")
		}
		if err := tx.Delete(&Publisher{}, id).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "publisher.delete", "failed to delete publisher", err)
		}
		return nil
	})
}
