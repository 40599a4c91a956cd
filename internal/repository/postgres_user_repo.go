package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/renrakucho/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `username, password, name, token, token_expired_at, created_at, updated_at`

// scanUser は1行をmodel.Userに読み込む。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.Username, &user.Password, &user.Name,
		&user.Token, &user.TokenExpiredAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByToken は指定トークンを保持し、かつ有効期限内のユーザーを取得する。
// 期限切れトークンはここでは消さない。クリアはログアウトか再ログインでのみ行う。
func (r *PostgresUserRepo) FindByToken(ctx context.Context, token string, now int64) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE token = $1 AND token_expired_at > $2`,
		token, now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by token: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
// 並行登録で事前チェックをすり抜けた場合もユニーク制約違反を重複エラーに読み替える。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, name, token, token_expired_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.Username, user.Password, user.Name,
		user.Token, user.TokenExpiredAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return model.NewDuplicateUsernameError()
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateProfile は表示名とパスワードダイジェストを更新する。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, password = $2, updated_at = $3 WHERE username = $4`,
		user.Name, user.Password, user.UpdatedAt, user.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// UpdateToken はトークンと有効期限を1回のUPDATEで書き換える。
// 同一ユーザーの並行ログインはストアのlast-writer-winsに委ねる。
func (r *PostgresUserRepo) UpdateToken(ctx context.Context, username string, token *string, expiredAt *int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET token = $1, token_expired_at = $2, updated_at = now() WHERE username = $3`,
		token, expiredAt, username,
	)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", username)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
