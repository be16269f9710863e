package repository

import (
	"context"
	"fmt"
	"time"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
	"message_wall/internal/platform/database"
)

// LikeRepository only works inside a caller-supplied transaction so a toggle
// reads and writes under one lock.
type LikeRepository interface {
	Create(ctx context.Context, tx database.DBTX, like *model.Like) error
	// Delete reports whether a like by userID on messageID existed.
	Delete(ctx context.Context, tx database.DBTX, userID, messageID int64) (bool, error)
	DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error
}

type sqlLikeRepository struct{}

func NewSQLLikeRepository() LikeRepository {
	return &sqlLikeRepository{}
}

func (r *sqlLikeRepository) Create(ctx context.Context, tx database.DBTX, like *model.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO likes (user_id, message_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, like.UserID, like.MessageID, like.CreatedAt).Scan(&like.ID); err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("message %d already liked: %w", like.MessageID, common.ErrConflict)
		}
		return fmt.Errorf("sqlLikeRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlLikeRepository) Delete(ctx context.Context, tx database.DBTX, userID, messageID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND message_id = $2`, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("sqlLikeRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlLikeRepository.Delete: %w", err)
	}
	return n > 0, nil
}

func (r *sqlLikeRepository) DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE message_id = $1`, messageID); err != nil {
		return fmt.Errorf("sqlLikeRepository.DeleteByMessage: %w", err)
	}
	return nil
}
