// Package model はドメインモデルを定義する。
package model

import "time"

// Contact はユーザーが所有する連絡先を表す。
// Usernameは所有者への外部参照であり、作成後は変更できない。
// 連絡先の取得・更新・削除は必ず(所有者, ID)の組で行う。
type Contact struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address は連絡先に属する住所を表す。
// 親のContactを経由してのみ到達可能であり、所有者検証は2段階で行われる。
type Address struct {
	ID         string
	ContactID  string
	Street     string
	City       string
	Province   string
	Country    string
	PostalCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
