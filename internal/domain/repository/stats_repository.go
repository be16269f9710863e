package repository

import (
	"context"
	"fmt"

	"message_wall/internal/domain/model"
	"message_wall/internal/platform/database"
)

type StatsRepository interface {
	Totals(ctx context.Context) (*model.Stats, error)
}

type sqlStatsRepository struct {
	db database.DBTX
}

func NewSQLStatsRepository(db database.DBTX) StatsRepository {
	return &sqlStatsRepository{db: db}
}

func (r *sqlStatsRepository) Totals(ctx context.Context) (*model.Stats, error) {
	query := `SELECT
	              (SELECT COUNT(*) FROM users),
	              (SELECT COUNT(*) FROM users WHERE is_active = $1),
	              (SELECT COUNT(*) FROM messages),
	              (SELECT COUNT(*) FROM likes),
	              (SELECT COUNT(*) FROM comments)`
	s := &model.Stats{}
	err := r.db.QueryRowContext(ctx, query, true).Scan(
		&s.TotalUsers, &s.ActiveUsers, &s.TotalMessages, &s.TotalLikes, &s.TotalComments,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlStatsRepository.Totals: %w", err)
	}
	return s, nil
}
