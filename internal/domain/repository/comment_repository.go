package repository

import (
	"context"
	"fmt"
	"time"

	"message_wall/internal/domain/model"
	"message_wall/internal/platform/database"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByMessage(ctx context.Context, messageID int64) ([]model.Comment, error)
	DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error
}

type sqlCommentRepository struct {
	db database.DBTX
}

func NewSQLCommentRepository(db database.DBTX) CommentRepository {
	return &sqlCommentRepository{db: db}
}

func (r *sqlCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO comments (content, author_id, message_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		comment.Content, comment.AuthorID, comment.MessageID, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("sqlCommentRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlCommentRepository) ListByMessage(ctx context.Context, messageID int64) ([]model.Comment, error) {
	query := `SELECT c.id, c.content, c.author_id, c.message_id, c.created_at,
	                 u.id, u.username, u.nickname, u.avatar, u.role, u.is_active, u.created_at
	          FROM comments c
	          JOIN users u ON u.id = c.author_id
	          WHERE c.message_id = $1
	          ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("sqlCommentRepository.ListByMessage: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		a := &c.Author
		if err := rows.Scan(
			&c.ID, &c.Content, &c.AuthorID, &c.MessageID, &c.CreatedAt,
			&a.ID, &a.Username, &a.Nickname, &a.Avatar, &a.Role, &a.IsActive, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlCommentRepository.ListByMessage scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlCommentRepository.ListByMessage rows: %w", err)
	}
	return comments, nil
}

func (r *sqlCommentRepository) DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE message_id = $1`, messageID); err != nil {
		return fmt.Errorf("sqlCommentRepository.DeleteByMessage: %w", err)
	}
	return nil
}
