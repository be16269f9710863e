package service

import (
	"context"
	"fmt"

	"message_wall/internal/domain/model"
	"message_wall/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=1,max=50"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.Update(ctx, userID, model.UserUpdate{Nickname: req.Nickname, Avatar: req.Avatar})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
