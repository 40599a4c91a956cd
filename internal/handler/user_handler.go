package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, req user.RegisterRequest) error
	// UpdateProfile は現在のユーザーのプロフィールを部分更新する。
	UpdateProfile(ctx context.Context, u *model.User, req user.UpdateProfileRequest) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// updateUserRequest はプロフィール更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。パスワードは含めない。
type userResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Register はユーザー登録を処理する。
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	err := h.service.Register(r.Context(), user.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}

// Current は現在のユーザーのプロフィールを返す。
// GET /api/users/current
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	writeData(w, http.StatusOK, toUserResponse(u))
}

// UpdateCurrent は現在のユーザーのプロフィールを部分更新する。
// PATCH /api/users/current
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	u, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), u, user.UpdateProfileRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toUserResponse(updated))
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		Username: u.Username,
		Name:     u.Name,
	}
}
