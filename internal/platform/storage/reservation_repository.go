package storage

import (
	"context"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create stores the reservation and decrements the boardgame's stock in the
// same transaction. Stock is checked with an UPDATE guard so two concurrent
// reservations cannot both take the last copy.
func (r *ReservationRepository) Create(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Boardgame{}).
			Where("id = ? AND stock > 0", reservation.BoardgameID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if result.Error != nil {
			return errors.Wrap(errors.KindStorage, "reservation.create", "failed to decrement stock", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.KindDomain, "reservation.create", "boardgame is out of stock")
		}
		if err := tx.Create(reservation).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "reservation.create", "failed to create reservation", err)
		}
		return nil
	})
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uint) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Preload("Boardgame").Preload("User").First(&reservation, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "reservation.find_by_id", "failed to find reservation", err)
	}
	return &reservation, nil
}

func (r *ReservationRepository) FindByCode(ctx context.Context, code string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Preload("Boardgame").Preload("User").
		Where("code = ?", code).First(&reservation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "reservation.find_by_code", "failed to find reservation", err)
	}
	return &reservation, nil
}

// ListByUser returns the reservations owned by the given user id, newest
// first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID uint) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).Preload("Boardgame").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&reservations).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "reservation.list_by_user", "failed to list reservations", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) ListAll(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).Preload("Boardgame").Preload("User").
		Order("created_at DESC").Find(&reservations).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "reservation.list_all", "failed to list reservations", err)
	}
	return reservations, nil
}

// Close marks the reservation returned or cancelled and restores the stock it
// held. Only pending and active reservations hold stock.
func (r *ReservationRepository) Close(ctx context.Context, id uint, status string) error {
	if status != ReservationReturned && status != ReservationCancelled {
		return errors.New(errors.KindDomain, "reservation.close", "status must be returned or cancelled")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation Reservation
		if err := tx.First(&reservation, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.KindDomain, "reservation.close", "reservation not found")
			}
			return errors.Wrap(errors.KindStorage, "reservation.close", "failed to load reservation", err)
		}
		if reservation.Status != ReservationPending && reservation.Status != ReservationActive {
			return errors.New(errors.KindDomain, "reservation.close", "reservation is already closed")
		}
		if err := tx.Model(&reservation).UpdateColumn("status", status).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "reservation.close", "failed to update status", err)
		}
		err := tx.Model(&Boardgame{}).Where("id = ?", reservation.BoardgameID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
		if err != nil {
			return errors.Wrap(errors.KindStorage, "reservation.close", "failed to restore stock", err)
		}
		return nil
	})
}

// Activate moves a pending reservation to active when the copy is handed
// over.
func (r *ReservationRepository) Activate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND status = ?", id, ReservationPending).
		UpdateColumn("status", ReservationActive)
	if result.Error != nil {
		return errors.Wrap(errors.KindStorage, "reservation.activate", "failed to activate reservation", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.KindDomain, "reservation.activate", "reservation is not pending")
	}
	return nil
}
