package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/renrakucho/internal/model"
)

// PostgresAddressRepo はPostgreSQLを使用した住所リポジトリ。
type PostgresAddressRepo struct {
	db *sql.DB
}

// NewPostgresAddressRepo はPostgresAddressRepoを生成する。
func NewPostgresAddressRepo(db *sql.DB) *PostgresAddressRepo {
	return &PostgresAddressRepo{db: db}
}

const addressColumns = `id, contact_id, street, city, province, country, postal_code, created_at, updated_at`

// Create は住所を作成する。
func (r *PostgresAddressRepo) Create(ctx context.Context, address *model.Address) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO addresses (id, contact_id, street, city, province, country, postal_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		address.ID, address.ContactID,
		address.Street, address.City, address.Province, address.Country, address.PostalCode,
		address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

// FindByContactAndID は連絡先とIDの両方に一致する住所を取得する。
// 存在しない場合と連絡先が異なる場合はどちらもnilを返す。
func (r *PostgresAddressRepo) FindByContactAndID(ctx context.Context, contactID, id string) (*model.Address, error) {
	address := &model.Address{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE contact_id = $1 AND id = $2`,
		contactID, id,
	).Scan(
		&address.ID, &address.ContactID,
		&address.Street, &address.City, &address.Province, &address.Country, &address.PostalCode,
		&address.CreatedAt, &address.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	return address, nil
}

// Update は住所を更新する。親の連絡先は書き換えない。
func (r *PostgresAddressRepo) Update(ctx context.Context, address *model.Address) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE addresses
		 SET street = $1, city = $2, province = $3, country = $4, postal_code = $5, updated_at = $6
		 WHERE id = $7`,
		address.Street, address.City, address.Province, address.Country, address.PostalCode,
		address.UpdatedAt, address.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return nil
}

// Delete は指定IDの住所を削除する。
func (r *PostgresAddressRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

// ListByContact は連絡先配下の全住所をcreated_at昇順で返す。
func (r *PostgresAddressRepo) ListByContact(ctx context.Context, contactID string) ([]*model.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE contact_id = $1 ORDER BY created_at, id`,
		contactID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*model.Address
	for rows.Next() {
		address := &model.Address{}
		if err := rows.Scan(
			&address.ID, &address.ContactID,
			&address.Street, &address.City, &address.Province, &address.Country, &address.PostalCode,
			&address.CreatedAt, &address.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}

	return addresses, nil
}

// compile-time interface check
var _ AddressRepository = (*PostgresAddressRepo)(nil)
