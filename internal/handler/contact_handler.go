package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/contact"
	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// ContactServiceInterface は連絡先ハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Create(ctx context.Context, user *model.User, req contact.CreateRequest) (*model.Contact, error)
	Get(ctx context.Context, user *model.User, id string) (*model.Contact, error)
	Update(ctx context.Context, user *model.User, id string, req contact.UpdateRequest) (*model.Contact, error)
	Delete(ctx context.Context, user *model.User, id string) error
	Search(ctx context.Context, user *model.User, req contact.SearchRequest) (*contact.Page, error)
}

// ContactHandler は連絡先管理のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// createContactRequest は連絡先作成リクエストのボディ。
type createContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// updateContactRequest は連絡先更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateContactRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// contactResponse は連絡先情報のAPIレスポンス。
type contactResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Create は連絡先作成を処理する。
// POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), user, contact.CreateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, toContactResponse(created))
}

// Get は連絡先詳細を取得する。
// GET /api/contacts/{contactId}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	found, err := h.service.Get(r.Context(), user, chi.URLParam(r, "contactId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toContactResponse(found))
}

// Update は連絡先を部分更新する。
// PATCH /api/contacts/{contactId}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	updated, err := h.service.Update(r.Context(), user, chi.URLParam(r, "contactId"), contact.UpdateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toContactResponse(updated))
}

// Delete は連絡先と配下の住所を削除する。
// DELETE /api/contacts/{contactId}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Delete(r.Context(), user, chi.URLParam(r, "contactId")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}

// Search は連絡先を検索する。
// GET /api/contacts?name=&email=&phone=&page=&size=
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	q := r.URL.Query()

	page, err := parseIntParam(q.Get("page"), contact.DefaultPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a number")
		return
	}
	size, err := parseIntParam(q.Get("size"), contact.DefaultSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "size must be a number")
		return
	}

	result, err := h.service.Search(r.Context(), user, contact.SearchRequest{
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Phone: q.Get("phone"),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 空ページでもnullではなく空配列を返す
	contacts := make([]contactResponse, 0, len(result.Contacts))
	for _, c := range result.Contacts {
		contacts = append(contacts, toContactResponse(c))
	}

	writeDataWithPaging(w, http.StatusOK, contacts, &pagingResponse{
		CurrentPage: result.CurrentPage,
		TotalPage:   result.TotalPage,
		Size:        result.Size,
	})
}

// toContactResponse はmodel.ContactからAPIレスポンスに変換する。
func toContactResponse(c *model.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

// parseIntParam はクエリパラメータを整数として解析する。空文字はデフォルト値を返す。
func parseIntParam(value string, defaultVal int) (int, error) {
	if value == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(value)
}
