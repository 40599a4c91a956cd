// Package user はユーザー登録とプロフィール管理を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// RegisterRequest はユーザー登録の入力。
type RegisterRequest struct {
	Username string
	Password string
	Name     string
}

// UpdateProfileRequest はプロフィール更新の入力。
// nilのフィールドは変更しない（部分マージ）。ユーザー名は変更できない。
type UpdateProfileRequest struct {
	Name     *string
	Password *string
}

// Service はユーザーに関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Register は新規ユーザーを登録する。
// ユーザー名が登録済みの場合はConflictエラーを返す。
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if err := validation.First(
		validation.Required("username", req.Username),
		validation.MaxLen("username", req.Username, 100),
		validation.Required("password", req.Password),
		validation.MaxLen("password", req.Password, 100),
		validation.Required("name", req.Name),
		validation.MaxLen("name", req.Name, 100),
	); err != nil {
		return err
	}

	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return model.NewDuplicateUsernameError()
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Username:  req.Username,
		Password:  string(digest),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", slog.String("username", user.Username))
	return nil
}

// UpdateProfile は現在のユーザーのプロフィールを部分更新する。
// 与えられたフィールドのみ上書きし、更新後のユーザーを返す。
func (s *Service) UpdateProfile(ctx context.Context, user *model.User, req UpdateProfileRequest) (*model.User, error) {
	if req.Name != nil {
		if err := validation.First(
			validation.Required("name", *req.Name),
			validation.MaxLen("name", *req.Name, 100),
		); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := validation.First(
			validation.Required("password", *req.Password),
			validation.MaxLen("password", *req.Password, 100),
		); err != nil {
			return nil, err
		}
	}

	updated := *user
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Password != nil {
		digest, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.Password = string(digest)
	}
	updated.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &updated, nil
}
