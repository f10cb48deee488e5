package storage

import (
	"context"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

// Summary aggregates catalogue and rental activity for the dashboard.
type Summary struct {
	Users              int64            `json:"users"`
	Publishers         int64            `json:"publishers"`
	Boardgames         int64            `json:"boardgames"`
	Reviews            int64            `json:"reviews"`
	Reservations       map[string]int64 `json:"reservations"`
	StockTotal         int64            `json:"stockTotal"`
	TopRatedBoardgames []RatedBoardgame `json:"topRatedBoardgames"`
}

// RatedBoardgame pairs a boardgame with its review aggregate.
type RatedBoardgame struct {
	BoardgameID   uint    `json:"boardgameId"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Summary(ctx context.Context) (*Summary, error) {
	const op = "analytics.summary"
	db := r.db.WithContext(ctx)
	summary := &Summary{Reservations: make(map[string]int64)}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&User{}, &summary.Users},
		{&Publisher{}, &summary.Publishers},
		{&Boardgame{}, &summary.Boardgames},
		{&Review{}, &summary.Reviews},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(errors.KindStorage, op, "failed to count rows", err)
		}
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	err := db.Model(&Reservation{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "failed to group reservations", err)
	}
	for _, row := range byStatus {
		summary.Reservations[row.Status] = row.Count
	}

	var stock struct{ Total int64 }
	err = db.Model(&Boardgame{}).Select("COALESCE(SUM(stock), 0) AS total").Scan(&stock).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "failed to sum stock", err)
	}
	summary.StockTotal = stock.Total

	err = db.Model(&Review{}).
		Select("reviews.boardgame_id, boardgames.name, AVG(reviews.rating) AS average_rating, COUNT(*) AS review_count").
		Joins("JOIN boardgames ON boardgames.id = reviews.boardgame_id").
		Group("reviews.boardgame_id, boardgames.name").
		Order("average_rating DESC").
		Limit(5).
		Scan(&summary.TopRatedBoardgames).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "failed to rank boardgames", err)
	}

	return summary, nil
}
