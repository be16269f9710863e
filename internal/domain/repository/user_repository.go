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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	HasAdmin(ctx context.Context) (bool, error)
	Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
	ListWithMessageCounts(ctx context.Context) ([]model.AdminUserView, error)
}

const userColumns = `id, username, hashed_password, nickname, avatar, role, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*model.User, error) {
	user := &model.User{}
	dest := append([]any{
		&user.ID, &user.Username, &user.HashedPassword, &user.Nickname,
		&user.Avatar, &user.Role, &user.IsActive, &user.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return user, nil
}

type sqlUserRepository struct {
	db database.DBTX
}

func NewSQLUserRepository(db database.DBTX) UserRepository {
	return &sqlUserRepository{db: db}
}

func (r *sqlUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO users (username, hashed_password, nickname, avatar, role, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.HashedPassword, user.Nickname, user.Avatar, string(user.Role), user.IsActive, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("username %q already exists: %w", user.Username, common.ErrConflict)
		}
		return fmt.Errorf("sqlUserRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`
	if err := r.db.QueryRowContext(ctx, query, string(model.RoleAdmin)).Scan(&exists); err != nil {
		return false, fmt.Errorf("sqlUserRepository.HasAdmin: %w", err)
	}
	return exists, nil
}

func (r *sqlUserRepository) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	var role *string
	if upd.Role != nil {
		s := string(*upd.Role)
		role = &s
	}
	query := `UPDATE users SET
	              nickname  = COALESCE($1, nickname),
	              avatar    = COALESCE($2, avatar),
	              role      = COALESCE($3, role),
	              is_active = COALESCE($4, is_active)
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, upd.Nickname, upd.Avatar, role, upd.IsActive, id)
	if err != nil {
		return nil, fmt.Errorf("sqlUserRepository.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlUserRepository.Update: %w", err)
	}
	if n == 0 {
		return nil, common.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *sqlUserRepository) ListWithMessageCounts(ctx context.Context) ([]model.AdminUserView, error) {
	query := `SELECT u.id, u.username, u.hashed_password, u.nickname, u.avatar, u.role, u.is_active, u.created_at,
	                 (SELECT COUNT(*) FROM messages m WHERE m.author_id = u.id) AS messages_count
	          FROM users u
	          ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlUserRepository.ListWithMessageCounts: %w", err)
	}
	defer rows.Close()

	users := []model.AdminUserView{}
	for rows.Next() {
		var count int64
		user, err := scanUser(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("sqlUserRepository.ListWithMessageCounts scan: %w", err)
		}
		users = append(users, model.AdminUserView{User: *user, MessagesCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlUserRepository.ListWithMessageCounts rows: %w", err)
	}
	return users, nil
}
