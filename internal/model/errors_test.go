package model

import (
	"errors"
	"fmt"
	"testing"
)

// TestAPIError_ErrorsAs はラップされたAPIErrorがerrors.Asで取り出せることを検証する。
func TestAPIError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("service failed: %w", NewContactNotFoundError())

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("expected errors.As to unwrap APIError")
	}
	if apiErr.Code != ErrCodeContactNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeContactNotFound)
	}
}

// TestErrorMessages は外部に公開されるエラーメッセージの文言を検証する。
func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		message string
	}{
		{"unauthorized", NewUnauthorizedError(), "Unauthorized"},
		{"login failed", NewLoginFailedError(), "Username or Password wrong"},
		{"contact not found", NewContactNotFoundError(), "Contact is not found."},
		{"address not found", NewAddressNotFoundError(), "Address is not found."},
		{"duplicate username", NewDuplicateUsernameError(), "Username already registered"},
		{"validation", NewValidationError("firstName", "must not be blank"), "firstName must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}
