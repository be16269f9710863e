package service

import (
	"context"
	"fmt"

	"message_wall/internal/domain/model"
	"message_wall/internal/domain/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	messageRepo repository.MessageRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	messageRepo repository.MessageRepository,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, messageRepo: messageRepo}
}

type CreateCommentRequest struct {
	Content   string `json:"content" validate:"required,min=1,max=200"`
	MessageID int64  `json:"message_id" validate:"required,gt=0"`
}

func (s *CommentService) ListByMessage(ctx context.Context, messageID int64) ([]model.Comment, error) {
	if _, err := s.messageRepo.FindByID(ctx, messageID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByMessage(ctx, messageID)
}

func (s *CommentService) Create(ctx context.Context, author *model.User, req CreateCommentRequest) (*model.Comment, error) {
	if _, err := s.messageRepo.FindByID(ctx, req.MessageID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Content:   req.Content,
		AuthorID:  author.ID,
		MessageID: req.MessageID,
		Author:    *author,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}
