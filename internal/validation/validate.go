// Package validation はリクエスト入力値の検証ヘルパーを提供する。
// 検証は永続化層へのアクセスより前に必ず実行し、
// 不正なリクエストから参照先IDの存在有無が漏れないようにする。
package validation

import (
	"net/mail"
	"unicode/utf8"

	"github.com/hitoshi/renrakucho/internal/model"
)

// Required はvalueが空でないことを検証する。
func Required(field, value string) error {
	if value == "" {
		return model.NewValidationError(field, "must not be blank")
	}
	return nil
}

// MaxLen はvalueの文字数がmax以下であることを検証する。
func MaxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return model.NewValidationError(field, "is too long")
	}
	return nil
}

// Email はvalueがメールアドレス形式であることを検証する。
// 空文字は許可する（任意フィールド用。必須チェックはRequiredで行う）。
func Email(field, value string) error {
	if value == "" {
		return nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return model.NewValidationError(field, "must be a well-formed email address")
	}
	return nil
}

// First は最初に失敗した検証エラーを返す。全て成功した場合はnilを返す。
func First(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
