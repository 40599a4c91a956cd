package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/renrakucho/internal/model"
)

// PostgresContactRepo はPostgreSQLを使用した連絡先リポジトリ。
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo はPostgresContactRepoを生成する。
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

const contactColumns = `id, username, first_name, last_name, email, phone, created_at, updated_at`

// Create は連絡先を作成する。
func (r *PostgresContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, username, first_name, last_name, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		contact.ID, contact.Username,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone,
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// FindByOwnerAndID は所有者とIDの両方に一致する連絡先を取得する。
// 存在しない場合と所有者が異なる場合はどちらもnilを返す。
func (r *PostgresContactRepo) FindByOwnerAndID(ctx context.Context, username, id string) (*model.Contact, error) {
	contact := &model.Contact{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE username = $1 AND id = $2`,
		username, id,
	).Scan(
		&contact.ID, &contact.Username,
		&contact.FirstName, &contact.LastName, &contact.Email, &contact.Phone,
		&contact.CreatedAt, &contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return contact, nil
}

// Update は連絡先を更新する。所有者は書き換えない。
func (r *PostgresContactRepo) Update(ctx context.Context, contact *model.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = $5
		 WHERE id = $6`,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone,
		contact.UpdatedAt, contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// DeleteWithAddresses は連絡先と配下の全住所を同一トランザクションで削除する。
// カスケードはFKの動作に頼らず明示的に行う。
func (r *PostgresContactRepo) DeleteWithAddresses(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 住所を先に削除
	_, err = tx.ExecContext(ctx,
		`DELETE FROM addresses WHERE contact_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete addresses: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Search はフィルタに一致する連絡先の1ページ分と総件数を返す。
// 所有者条件は必須で、任意フィルタはバインドパラメータ付きLIKEのAND結合として組み立てる。
// 部分一致は大文字小文字を区別する。
// 1回のCOUNTと1回のLIMIT/OFFSET付きフェッチで実行する。
func (r *PostgresContactRepo) Search(ctx context.Context, filter SearchFilter) ([]*model.Contact, int, error) {
	conds := []string{"username = $1"}
	args := []any{filter.Username}

	if filter.Name != "" {
		args = append(args, filter.Name)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name LIKE '%%' || $%d || '%%' OR last_name LIKE '%%' || $%d || '%%')", n, n))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conds = append(conds, fmt.Sprintf("email LIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Phone != "" {
		args = append(args, filter.Phone)
		conds = append(conds, fmt.Sprintf("phone LIKE '%%' || $%d || '%%'", len(args)))
	}

	where := strings.Join(conds, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM contacts WHERE `+where,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT `+contactColumns+` FROM contacts WHERE %s
		 ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		contact := &model.Contact{}
		if err := rows.Scan(
			&contact.ID, &contact.Username,
			&contact.FirstName, &contact.LastName, &contact.Email, &contact.Phone,
			&contact.CreatedAt, &contact.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, total, nil
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
