package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/renrakucho/internal/model"
)

// --- モック ---

type mockAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (*model.Token, error)
	logoutFn func(ctx context.Context, user *model.User) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.Token, error) {
	return m.loginFn(ctx, username, password)
}
func (m *mockAuthService) Logout(ctx context.Context, user *model.User) error {
	return m.logoutFn(ctx, user)
}

// --- テスト ---

// TestAuthHandler_Login_Success は発行されたトークンがcamelCaseでレスポンスされることを検証する。
func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, username, password string) (*model.Token, error) {
			if username != "alice" || password != "secret" {
				t.Errorf("credentials = %q/%q, want alice/secret", username, password)
			}
			return &model.Token{Token: "issued-token", ExpiredAt: 1700000000000}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := decodeResponse(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if data["token"] != "issued-token" {
		t.Errorf("token = %v, want %q", data["token"], "issued-token")
	}
	if data["expiredAt"] != float64(1700000000000) {
		t.Errorf("expiredAt = %v, want 1700000000000", data["expiredAt"])
	}
}

// TestAuthHandler_Login_WrongCredentials はログイン失敗が401と
// 固定メッセージになることを検証する。
func TestAuthHandler_Login_WrongCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, username, password string) (*model.Token, error) {
			return nil, model.NewLoginFailedError()
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	body := decodeResponse(t, rec)
	if body["errors"] != "Username or Password wrong" {
		t.Errorf("errors = %v, want %q", body["errors"], "Username or Password wrong")
	}
}

// TestAuthHandler_Login_InvalidBody は不正なJSONボディが400になることを検証する。
func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestAuthHandler_Logout はログアウト成功時にdata "OK" が返ることを検証する。
func TestAuthHandler_Logout(t *testing.T) {
	var loggedOut string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, user *model.User) error {
			loggedOut = user.Username
			return nil
		},
	}
	h := NewAuthHandler(svc)

	req := authedRequest(t, http.MethodDelete, "/api/auth/logout", "")
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if loggedOut != "alice" {
		t.Errorf("logged out user = %q, want %q", loggedOut, "alice")
	}
	body := decodeResponse(t, rec)
	if body["data"] != "OK" {
		t.Errorf("data = %v, want %q", body["data"], "OK")
	}
}

// TestAuthHandler_Logout_MissingUser はコンテキストにユーザーが無い場合に401になることを検証する。
func TestAuthHandler_Logout_MissingUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
