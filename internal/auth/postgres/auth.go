package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/auth"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/jmoiron/sqlx"
)

// Repository is the credential and token store. It runs plain SQL through
// sqlx; placeholders are rebound for the connected driver.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := r.db.Rebind(`SELECT id, email, password_hash FROM users WHERE email = ?`)

	if err := r.db.GetContext(ctx, &creds, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) StoreToken(ctx context.Context, userID int64, tokenHash, name string, expiresAt *time.Time) error {
	query := r.db.Rebind(`INSERT INTO access_tokens (user_id, token_hash, name, expires_at, created_at)
	                      VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, userID, tokenHash, name, expiresAt, time.Now())
	return err
}

func (r *Repository) FindToken(ctx context.Context, tokenHash string) (*auth.TokenRecord, error) {
	var record auth.TokenRecord
	query := r.db.Rebind(`SELECT id, user_id, expires_at FROM access_tokens WHERE token_hash = ?`)

	if err := r.db.GetContext(ctx, &record, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) TouchToken(ctx context.Context, id int64, at time.Time) error {
	query := r.db.Rebind(`UPDATE access_tokens SET last_used_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *Repository) RevokeAllTokens(ctx context.Context, userID int64) (int64, error) {
	query := r.db.Rebind(`DELETE FROM access_tokens WHERE user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetUserWithRoles loads the identity with its api-guard role names and the
// permission names granted through those roles.
func (r *Repository) GetUserWithRoles(ctx context.Context, userID int64) (*internal.User, error) {
	var user internal.User
	query := r.db.Rebind(`SELECT id, name, email FROM users WHERE id = ?`)

	row := r.db.QueryRowxContext(ctx, query, userID)
	if err := row.Scan(&user.ID, &user.Name, &user.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	roleQuery := r.db.Rebind(`SELECT r.name
	             FROM roles r
	             JOIN user_roles ur ON r.id = ur.role_id
	             WHERE ur.user_id = ? AND r.guard_name = ?
	             ORDER BY r.name`)
	if err := r.db.SelectContext(ctx, &user.Roles, roleQuery, userID, roleDatamodel.GuardAPI); err != nil {
		return nil, err
	}

	permQuery := r.db.Rebind(`SELECT DISTINCT p.name
	             FROM permissions p
	             JOIN role_permissions rp ON p.id = rp.permission_id
	             JOIN roles r ON r.id = rp.role_id
	             JOIN user_roles ur ON rp.role_id = ur.role_id
	             WHERE ur.user_id = ? AND p.guard_name = ? AND r.guard_name = ?
	             ORDER BY p.name`)
	if err := r.db.SelectContext(ctx, &user.Permissions, permQuery, userID, roleDatamodel.GuardAPI, roleDatamodel.GuardAPI); err != nil {
		return nil, err
	}

	return &user, nil
}
