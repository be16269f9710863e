package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
	"message_wall/internal/platform/database"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id int64) (*model.Message, error)
	// ListForViewer returns every message newest first, with author, counters
	// and whether viewerID has liked it.
	ListForViewer(ctx context.Context, viewerID int64) ([]model.MessageView, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
	Delete(ctx context.Context, tx database.DBTX, id int64) error
}

type sqlMessageRepository struct {
	db database.DBTX
}

func NewSQLMessageRepository(db database.DBTX) MessageRepository {
	return &sqlMessageRepository{db: db}
}

func (r *sqlMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO messages (content, author_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, msg.Content, msg.AuthorID, msg.CreatedAt).Scan(&msg.ID); err != nil {
		return fmt.Errorf("sqlMessageRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlMessageRepository) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `SELECT id, content, author_id, created_at FROM messages WHERE id = $1`
	msg := &model.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&msg.ID, &msg.Content, &msg.AuthorID, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlMessageRepository.FindByID: %w", err)
	}
	return msg, nil
}

func (r *sqlMessageRepository) ListForViewer(ctx context.Context, viewerID int64) ([]model.MessageView, error) {
	query := `SELECT m.id, m.content, m.created_at,
	                 u.id, u.username, u.nickname, u.avatar, u.role, u.is_active, u.created_at,
	                 (SELECT COUNT(*) FROM likes l WHERE l.message_id = m.id) AS likes_count,
	                 (SELECT COUNT(*) FROM comments c WHERE c.message_id = m.id) AS comments_count,
	                 EXISTS (SELECT 1 FROM likes l2 WHERE l2.message_id = m.id AND l2.user_id = $1) AS is_liked
	          FROM messages m
	          JOIN users u ON u.id = m.author_id
	          ORDER BY m.created_at DESC, m.id DESC`
	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("sqlMessageRepository.ListForViewer: %w", err)
	}
	defer rows.Close()

	messages := []model.MessageView{}
	for rows.Next() {
		var v model.MessageView
		a := &v.Author
		if err := rows.Scan(
			&v.ID, &v.Content, &v.CreatedAt,
			&a.ID, &a.Username, &a.Nickname, &a.Avatar, &a.Role, &a.IsActive, &a.CreatedAt,
			&v.LikesCount, &v.CommentsCount, &v.IsLiked,
		); err != nil {
			return nil, fmt.Errorf("sqlMessageRepository.ListForViewer scan: %w", err)
		}
		messages = append(messages, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlMessageRepository.ListForViewer rows: %w", err)
	}
	return messages, nil
}

func (r *sqlMessageRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM messages WHERE author_id = $1`
	if err := r.db.QueryRowContext(ctx, query, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlMessageRepository.CountByAuthor: %w", err)
	}
	return n, nil
}

// Delete removes the message row only; likes and comments must be removed
// first in the same transaction.
func (r *sqlMessageRepository) Delete(ctx context.Context, tx database.DBTX, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sqlMessageRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlMessageRepository.Delete: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
