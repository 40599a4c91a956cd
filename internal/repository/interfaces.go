// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/renrakucho/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByToken は指定トークンを保持し、かつ有効期限内のユーザーを取得する。
	// トークンを保持するユーザーが存在しない場合と期限切れの場合はどちらもnilを返す。
	// nowはepochミリ秒で与える。
	FindByToken(ctx context.Context, token string, now int64) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile は表示名とパスワードダイジェストを更新する。
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdateToken はトークンと有効期限を1回の更新で書き換える。
	// ログインは新しい値で上書き、ログアウトはnilでクリアする。
	UpdateToken(ctx context.Context, username string, token *string, expiredAt *int64) error
}

// SearchFilter は連絡先検索の条件を表す。
// Username以外のフィールドは空文字なら条件に含めない（ワイルドカード一致ではない）。
type SearchFilter struct {
	Username string
	Name     string // first_name または last_name の部分一致
	Email    string
	Phone    string
	Offset   int
	Limit    int
}

// ContactRepository は連絡先データの永続化インターフェース。
// 単一エンティティの取得は必ず(所有者, ID)の組で行い、IDのみでの取得は提供しない。
type ContactRepository interface {
	// Create は連絡先を作成する。
	Create(ctx context.Context, contact *model.Contact) error

	// FindByOwnerAndID は所有者とIDの両方に一致する連絡先を取得する。
	// 存在しない場合と所有者が異なる場合はどちらもnilを返す。
	FindByOwnerAndID(ctx context.Context, username, id string) (*model.Contact, error)

	// Update は連絡先を更新する。
	Update(ctx context.Context, contact *model.Contact) error

	// DeleteWithAddresses は連絡先と配下の全住所を同一トランザクションで削除する。
	DeleteWithAddresses(ctx context.Context, id string) error

	// Search はフィルタに一致する連絡先の1ページ分と総件数を返す。
	// 並び順はcreated_at昇順、同時刻はID昇順で安定させる。
	Search(ctx context.Context, filter SearchFilter) ([]*model.Contact, int, error)
}

// AddressRepository は住所データの永続化インターフェース。
// 取得は必ず(連絡先ID, ID)の組で行う。連絡先自体の所有者検証は呼び出し側の責務。
type AddressRepository interface {
	// Create は住所を作成する。
	Create(ctx context.Context, address *model.Address) error

	// FindByContactAndID は連絡先とIDの両方に一致する住所を取得する。
	// 存在しない場合と連絡先が異なる場合はどちらもnilを返す。
	FindByContactAndID(ctx context.Context, contactID, id string) (*model.Address, error)

	// Update は住所を更新する。
	Update(ctx context.Context, address *model.Address) error

	// Delete は指定IDの住所を削除する。
	Delete(ctx context.Context, id string) error

	// ListByContact は連絡先配下の全住所をcreated_at昇順で返す。
	ListByContact(ctx context.Context, contactID string) ([]*model.Address, error)
}
