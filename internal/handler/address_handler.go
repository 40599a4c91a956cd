package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/address"
	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// AddressServiceInterface は住所ハンドラーが必要とするサービスインターフェース。
// 全操作が所有者→連絡先→住所の2段階検証を行う。
type AddressServiceInterface interface {
	Create(ctx context.Context, user *model.User, contactID string, req address.CreateRequest) (*model.Address, error)
	Get(ctx context.Context, user *model.User, contactID, id string) (*model.Address, error)
	Update(ctx context.Context, user *model.User, contactID, id string, req address.UpdateRequest) (*model.Address, error)
	Delete(ctx context.Context, user *model.User, contactID, id string) error
	List(ctx context.Context, user *model.User, contactID string) ([]*model.Address, error)
}

// AddressHandler は住所管理のHTTPハンドラー。
type AddressHandler struct {
	service AddressServiceInterface
}

// NewAddressHandler はAddressHandlerを生成する。
func NewAddressHandler(service AddressServiceInterface) *AddressHandler {
	return &AddressHandler{service: service}
}

// createAddressRequest は住所作成リクエストのボディ。
type createAddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// updateAddressRequest は住所更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateAddressRequest struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postalCode"`
}

// addressResponse は住所情報のAPIレスポンス。
type addressResponse struct {
	ID         string `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// Create は住所作成を処理する。
// POST /api/contacts/{contactId}/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), user, chi.URLParam(r, "contactId"), address.CreateRequest{
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, toAddressResponse(created))
}

// Get は住所詳細を取得する。
// GET /api/contacts/{contactId}/addresses/{addressId}
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	found, err := h.service.Get(r.Context(), user,
		chi.URLParam(r, "contactId"), chi.URLParam(r, "addressId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toAddressResponse(found))
}

// Update は住所を部分更新する。
// PUT /api/contacts/{contactId}/addresses/{addressId}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	updated, err := h.service.Update(r.Context(), user,
		chi.URLParam(r, "contactId"), chi.URLParam(r, "addressId"),
		address.UpdateRequest{
			Street:     req.Street,
			City:       req.City,
			Province:   req.Province,
			Country:    req.Country,
			PostalCode: req.PostalCode,
		})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toAddressResponse(updated))
}

// Delete は住所を削除する。
// DELETE /api/contacts/{contactId}/addresses/{addressId}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	err = h.service.Delete(r.Context(), user,
		chi.URLParam(r, "contactId"), chi.URLParam(r, "addressId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "OK")
}

// List は連絡先配下の全住所を取得する。
// GET /api/contacts/{contactId}/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	addresses, err := h.service.List(r.Context(), user, chi.URLParam(r, "contactId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]addressResponse, 0, len(addresses))
	for _, a := range addresses {
		responses = append(responses, toAddressResponse(a))
	}

	writeData(w, http.StatusOK, responses)
}

// toAddressResponse はmodel.AddressからAPIレスポンスに変換する。
func toAddressResponse(a *model.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}
