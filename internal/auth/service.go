// Package auth はトークン認証（ログイン・ログアウト・トークン検証）を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// tokenTTL はトークンの有効期間。設計上の固定値であり設定不可。
const tokenTTL = 30 * 24 * time.Hour

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// Login はユーザー名とパスワードを検証し、新しいトークンを発行する。
// 以前のトークンは上書きされる。
// ユーザー名不明とパスワード誤りは同一のエラーを返す（ユーザー名列挙の防止）。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Token, error) {
	if err := validation.First(
		validation.Required("username", username),
		validation.MaxLen("username", username, 100),
		validation.Required("password", password),
		validation.MaxLen("password", password, 100),
	); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewLoginFailedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.NewLoginFailedError()
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	expiredAt := s.now().Add(tokenTTL).UnixMilli()

	if err := s.userRepo.UpdateToken(ctx, user.Username, &token, &expiredAt); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	slog.Info("user logged in", slog.String("username", user.Username))

	return &model.Token{Token: token, ExpiredAt: expiredAt}, nil
}

// Logout はユーザーのトークンと有効期限をクリアする。
// すでにログアウト済みのユーザーに対しても成功する（冪等）。
func (s *Service) Logout(ctx context.Context, user *model.User) error {
	if err := s.userRepo.UpdateToken(ctx, user.Username, nil, nil); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}

	slog.Info("user logged out", slog.String("username", user.Username))
	return nil
}

// VerifyToken はトークンを保持する有効期限内のユーザーを返す。
// トークン未検出と期限切れは同一のUnauthorizedエラーになる。
// 期限切れトークンの消去はここでは行わない。クリアはログアウトか再ログインのみ。
func (s *Service) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByToken(ctx, token, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to find user by token: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// generateToken は暗号的に安全な不透明トークンを生成する。
// 32バイト（256ビット）の乱数を16進文字列にする。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
