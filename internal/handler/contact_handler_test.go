package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/contact"
	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// --- モック ---

type mockContactService struct {
	createFn func(ctx context.Context, user *model.User, req contact.CreateRequest) (*model.Contact, error)
	getFn    func(ctx context.Context, user *model.User, id string) (*model.Contact, error)
	updateFn func(ctx context.Context, user *model.User, id string, req contact.UpdateRequest) (*model.Contact, error)
	deleteFn func(ctx context.Context, user *model.User, id string) error
	searchFn func(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error)
}

func (m *mockContactService) Create(ctx context.Context, user *model.User, req contact.CreateRequest) (*model.Contact, error) {
	return m.createFn(ctx, user, req)
}
func (m *mockContactService) Get(ctx context.Context, user *model.User, id string) (*model.Contact, error) {
	return m.getFn(ctx, user, id)
}
func (m *mockContactService) Update(ctx context.Context, user *model.User, id string, req contact.UpdateRequest) (*model.Contact, error) {
	return m.updateFn(ctx, user, id, req)
}
func (m *mockContactService) Delete(ctx context.Context, user *model.User, id string) error {
	return m.deleteFn(ctx, user, id)
}
func (m *mockContactService) Search(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error) {
	return m.searchFn(ctx, user, req)
}

// authedRequest は認証済みユーザー付きのリクエストを作る。
func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), &model.User{Username: "alice"}))
}

// withURLParams はchiのルートパラメータをリクエストに設定する。
// key, value, key, value... の順で渡す。
func withURLParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse はレスポンスボディをエンベロープとして解析する。
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// --- テスト ---

// TestContactHandler_Create は作成成功時に201とdataエンベロープが返ることを検証する。
func TestContactHandler_Create(t *testing.T) {
	svc := &mockContactService{
		createFn: func(ctx context.Context, user *model.User, req contact.CreateRequest) (*model.Contact, error) {
			if user.Username != "alice" {
				t.Errorf("Username = %q, want %q", user.Username, "alice")
			}
			return &model.Contact{
				ID:        "c1",
				Username:  user.Username,
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Email:     req.Email,
				Phone:     req.Phone,
			}, nil
		},
	}
	h := NewContactHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/contacts",
		`{"firstName":"Taro","lastName":"Yamada","email":"taro@example.com","phone":"090-0000-0000"}`)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	body := decodeResponse(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if data["id"] != "c1" || data["firstName"] != "Taro" {
		t.Errorf("unexpected data: %v", data)
	}
	// 所有者はレスポンスに含めない
	if _, exists := data["username"]; exists {
		t.Error("response must not expose the owner username")
	}
}

// TestContactHandler_Create_InvalidBody は不正なJSONボディが400になることを検証する。
func TestContactHandler_Create_InvalidBody(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := authedRequest(t, http.MethodPost, "/api/contacts", `{not json`)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestContactHandler_Get_NotFound はNotFoundエラーが404とエラーメッセージになることを検証する。
func TestContactHandler_Get_NotFound(t *testing.T) {
	svc := &mockContactService{
		getFn: func(ctx context.Context, user *model.User, id string) (*model.Contact, error) {
			return nil, model.NewContactNotFoundError()
		},
	}
	h := NewContactHandler(svc)

	req := withURLParams(authedRequest(t, http.MethodGet, "/api/contacts/no-such-id", ""), "contactId", "no-such-id")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeResponse(t, rec)
	if body["errors"] != "Contact is not found." {
		t.Errorf("errors = %v, want %q", body["errors"], "Contact is not found.")
	}
	if _, exists := body["data"]; exists {
		t.Error("error response must not contain data")
	}
}

// TestContactHandler_Update はルートパラメータのIDがサービスに渡ることを検証する。
func TestContactHandler_Update(t *testing.T) {
	var gotID string
	svc := &mockContactService{
		updateFn: func(ctx context.Context, user *model.User, id string, req contact.UpdateRequest) (*model.Contact, error) {
			gotID = id
			if req.FirstName == nil || *req.FirstName != "Jiro" {
				t.Errorf("FirstName = %v, want Jiro", req.FirstName)
			}
			if req.LastName != nil {
				t.Error("omitted fields must decode as nil")
			}
			return &model.Contact{ID: id, FirstName: "Jiro"}, nil
		},
	}
	h := NewContactHandler(svc)

	req := withURLParams(authedRequest(t, http.MethodPatch, "/api/contacts/c1", `{"firstName":"Jiro"}`), "contactId", "c1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != "c1" {
		t.Errorf("id = %q, want %q", gotID, "c1")
	}
}

// TestContactHandler_Delete は削除成功時にdata "OK" が返ることを検証する。
func TestContactHandler_Delete(t *testing.T) {
	svc := &mockContactService{
		deleteFn: func(ctx context.Context, user *model.User, id string) error {
			return nil
		},
	}
	h := NewContactHandler(svc)

	req := withURLParams(authedRequest(t, http.MethodDelete, "/api/contacts/c1", ""), "contactId", "c1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeResponse(t, rec)
	if body["data"] != "OK" {
		t.Errorf("data = %v, want %q", body["data"], "OK")
	}
}

// TestContactHandler_Search はクエリパラメータの解析とページングエンベロープを検証する。
func TestContactHandler_Search(t *testing.T) {
	svc := &mockContactService{
		searchFn: func(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error) {
			if req.Name != "Gerry" || req.Page != 2 || req.Size != 5 {
				t.Errorf("unexpected request: %+v", req)
			}
			return &contact.Page{
				Contacts:    []*model.Contact{{ID: "c1", FirstName: "Gerry"}},
				CurrentPage: 2,
				TotalPage:   10,
				Size:        5,
			}, nil
		},
	}
	h := NewContactHandler(svc)

	req := authedRequest(t, http.MethodGet, "/api/contacts?name=Gerry&page=2&size=5", "")
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := decodeResponse(t, rec)
	paging, ok := body["paging"].(map[string]any)
	if !ok {
		t.Fatalf("expected paging object, got %v", body)
	}
	if paging["currentPage"] != float64(2) || paging["totalPage"] != float64(10) || paging["size"] != float64(5) {
		t.Errorf("unexpected paging: %v", paging)
	}
}

// TestContactHandler_Search_Defaults はpage/size省略時にデフォルト値が使われることを検証する。
func TestContactHandler_Search_Defaults(t *testing.T) {
	svc := &mockContactService{
		searchFn: func(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error) {
			if req.Page != contact.DefaultPage || req.Size != contact.DefaultSize {
				t.Errorf("Page/Size = %d/%d, want %d/%d", req.Page, req.Size, contact.DefaultPage, contact.DefaultSize)
			}
			return &contact.Page{CurrentPage: req.Page, TotalPage: 0, Size: req.Size}, nil
		},
	}
	h := NewContactHandler(svc)

	req := authedRequest(t, http.MethodGet, "/api/contacts", "")
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestContactHandler_Search_EmptyResultIsArray は空の検索結果が
// nullではなく空配列としてシリアライズされることを検証する。
func TestContactHandler_Search_EmptyResultIsArray(t *testing.T) {
	svc := &mockContactService{
		searchFn: func(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error) {
			return &contact.Page{Contacts: nil, CurrentPage: 50, TotalPage: 3, Size: 10}, nil
		},
	}
	h := NewContactHandler(svc)

	req := authedRequest(t, http.MethodGet, "/api/contacts?page=50", "")
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array data, got %s", rec.Body.String())
	}
}

// TestContactHandler_Search_InvalidParams は数値でないpage/sizeが400になることを検証する。
func TestContactHandler_Search_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"non-numeric page", "?page=abc", "page must be a number"},
		{"non-numeric size", "?size=xyz", "size must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContactService{
				searchFn: func(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error) {
					t.Fatal("service must not be called with invalid params")
					return nil, nil
				},
			}
			h := NewContactHandler(svc)

			req := authedRequest(t, http.MethodGet, "/api/contacts"+tt.query, "")
			rec := httptest.NewRecorder()

			h.Search(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			body := decodeResponse(t, rec)
			if body["errors"] != tt.message {
				t.Errorf("errors = %v, want %q", body["errors"], tt.message)
			}
		})
	}
}

// TestContactHandler_MissingUser はコンテキストにユーザーが無い場合に401になることを検証する。
func TestContactHandler_MissingUser(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
