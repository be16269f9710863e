package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
	"message_wall/internal/domain/repository"
	"message_wall/internal/platform/database"
)

var ErrCannotDisableSelf = fmt.Errorf("administrators cannot disable their own account: %w", common.ErrBadRequest)

type AdminService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	statsRepo   repository.StatsRepository
	db          *sql.DB
	log         logrus.FieldLogger
}

func NewAdminService(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	statsRepo repository.StatsRepository,
	db *sql.DB,
	log logrus.FieldLogger,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		statsRepo:   statsRepo,
		db:          db,
		log:         log,
	}
}

type AdminUpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=1,max=50"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.AdminUserView, error) {
	return s.userRepo.ListWithMessageCounts(ctx)
}

func (s *AdminService) UpdateUser(ctx context.Context, actor *model.User, targetID int64, req AdminUpdateUserRequest) (*model.AdminUserView, error) {
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return nil, err
	}
	if targetID == actor.ID && req.IsActive != nil && !*req.IsActive {
		return nil, ErrCannotDisableSelf
	}

	upd := model.UserUpdate{Nickname: req.Nickname, IsActive: req.IsActive}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, common.Errorf("unknown role %q: %w", *req.Role, common.ErrBadRequest)
		}
		upd.Role = &role
	}

	user, err := s.userRepo.Update(ctx, targetID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	count, err := s.messageRepo.CountByAuthor(ctx, targetID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"admin_id": actor.ID, "user_id": targetID}).Info("user updated by admin")
	return &model.AdminUserView{User: *user, MessagesCount: count}, nil
}

// DeleteMessage removes a message together with its likes and comments.
func (s *AdminService) DeleteMessage(ctx context.Context, actor *model.User, messageID int64) error {
	if _, err := s.messageRepo.FindByID(ctx, messageID); err != nil {
		return err
	}

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		if err := s.likeRepo.DeleteByMessage(ctx, tx, messageID); err != nil {
			return err
		}
		if err := s.commentRepo.DeleteByMessage(ctx, tx, messageID); err != nil {
			return err
		}
		return s.messageRepo.Delete(ctx, tx, messageID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}

	s.log.WithFields(logrus.Fields{"admin_id": actor.ID, "message_id": messageID}).Info("message deleted by admin")
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*model.Stats, error) {
	return s.statsRepo.Totals(ctx)
}
