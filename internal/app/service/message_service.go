package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
	"message_wall/internal/domain/repository"
	"message_wall/internal/platform/database"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
	db          *sql.DB // For transactions
	log         logrus.FieldLogger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	likeRepo repository.LikeRepository,
	db *sql.DB,
	log logrus.FieldLogger,
) *MessageService {
	return &MessageService{messageRepo: messageRepo, likeRepo: likeRepo, db: db, log: log}
}

type CreateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type LikeResult struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

func (s *MessageService) List(ctx context.Context, viewerID int64) ([]model.MessageView, error) {
	return s.messageRepo.ListForViewer(ctx, viewerID)
}

// Create posts a message for author and returns it in the same shape as the
// wall listing. A new message has no likes or comments yet.
func (s *MessageService) Create(ctx context.Context, author *model.User, req CreateMessageRequest) (*model.MessageView, error) {
	if req.Content == "" {
		return nil, common.Errorf("message content is empty: %w", common.ErrBadRequest)
	}
	msg := &model.Message{Content: req.Content, AuthorID: author.ID}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &model.MessageView{
		ID:        msg.ID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
		Author:    *author,
	}, nil
}

// ToggleLike removes the caller's like on messageID if present and adds one
// otherwise.
func (s *MessageService) ToggleLike(ctx context.Context, userID, messageID int64) (*LikeResult, error) {
	if _, err := s.messageRepo.FindByID(ctx, messageID); err != nil {
		return nil, err
	}

	var liked bool
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		removed, err := s.likeRepo.Delete(ctx, tx, userID, messageID)
		if err != nil {
			return err
		}
		if removed {
			liked = false
			return nil
		}
		liked = true
		return s.likeRepo.Create(ctx, tx, &model.Like{UserID: userID, MessageID: messageID})
	})
	if err != nil {
		// A concurrent request from the same user inserted the like first.
		if errors.Is(err, common.ErrConflict) {
			return &LikeResult{Liked: true, Message: "Liked"}, nil
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "message_id": messageID, "liked": liked}).Debug("like toggled")
	if liked {
		return &LikeResult{Liked: true, Message: "Liked"}, nil
	}
	return &LikeResult{Liked: false, Message: "Like removed"}, nil
}
