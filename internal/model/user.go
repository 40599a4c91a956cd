// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Usernameが自然キーであり、登録後は変更できない。
type User struct {
	Username       string
	Password       string // bcryptダイジェスト。APIレスポンスには含めない。
	Name           string
	Token          *string
	TokenExpiredAt *int64 // epochミリ秒。Tokenと必ず同時にnil/非nilになる。
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoggedIn はユーザーが有効なトークンを保持しているかを返す。
func (u *User) LoggedIn() bool {
	return u.Token != nil && u.TokenExpiredAt != nil
}

// Token は発行済みの認証トークンを表す。
type Token struct {
	Token     string
	ExpiredAt int64 // epochミリ秒
}
