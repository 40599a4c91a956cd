// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// MessageはそのままAPIレスポンスのerrorsフィールドに載る。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, notfound, validation, conflict
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeContactNotFound   = "CONTACT_NOT_FOUND"
	ErrCodeAddressNotFound   = "ADDRESS_NOT_FOUND"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
)

// NewUnauthorizedError は認証エラーを生成する。
// トークン欠落・未知・期限切れのいずれでも同一のメッセージを返し、
// 原因を外部から区別できないようにする。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
// ユーザー名不明とパスワード誤りでメッセージを変えない（ユーザー名列挙の防止）。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Username or Password wrong",
		Category: "auth",
	}
}

// NewContactNotFoundError は連絡先未検出エラーを生成する。
// 存在しないIDと他ユーザー所有のIDは同一の結果になる。
func NewContactNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeContactNotFound,
		Message:  "Contact is not found.",
		Category: "notfound",
	}
}

// NewAddressNotFoundError は住所未検出エラーを生成する。
func NewAddressNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAddressNotFound,
		Message:  "Address is not found.",
		Category: "notfound",
	}
}

// NewValidationError は入力値検証エラーを生成する。
// フィールド名と理由をメッセージに含める。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("%s %s", field, reason),
		Category: "validation",
	}
}

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUsername,
		Message:  "Username already registered",
		Category: "conflict",
	}
}
