package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証し、新しいトークンを発行する。
	Login(ctx context.Context, username, password string) (*model.Token, error)
	// Logout はユーザーのトークンをクリアする。冪等。
	Logout(ctx context.Context, user *model.User) error
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse は発行済みトークンのAPIレスポンス。
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiredAt int64  `json:"expiredAt"`
}

// Login はログインを処理し、トークンを発行する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, tokenResponse{
		Token:     token.Token,
		ExpiredAt: token.ExpiredAt,
	})
}

// Logout は現在のユーザーのトークンをクリアする。
// DELETE /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Logout(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}
