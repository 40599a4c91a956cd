// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/renrakucho/internal/model"
)

// webResponse は全APIエンドポイント共通のレスポンスエンベロープ。
// dataとerrorsは必ずどちらか一方のみ設定する。pagingは検索のみ。
type webResponse struct {
	Data   any             `json:"data,omitempty"`
	Errors string          `json:"errors,omitempty"`
	Paging *pagingResponse `json:"paging,omitempty"`
}

// pagingResponse は検索結果のページングメタデータ。
type pagingResponse struct {
	CurrentPage int `json:"currentPage"`
	TotalPage   int `json:"totalPage"`
	Size        int `json:"size"`
}

// writeData は成功レスポンスを書き込む。
func writeData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(webResponse{Data: data})
}

// writeDataWithPaging はページングメタデータ付きの成功レスポンスを書き込む。
func writeDataWithPaging(w http.ResponseWriter, statusCode int, data any, paging *pagingResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(webResponse{Data: data, Paging: paging})
}

// writeError はエラーレスポンスを書き込む。
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(webResponse{Errors: message})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeError(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う。詳細はログのみに残す。
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeContactNotFound, model.ErrCodeAddressNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateUsername:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeBadRequestBody はリクエストボディ解析失敗の400レスポンスを書き込む。
func writeBadRequestBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "request body is not valid JSON")
}

// writeUnauthorized は認証必須ルートでコンテキストにユーザーが無い場合の401を書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}
