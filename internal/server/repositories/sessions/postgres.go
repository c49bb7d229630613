package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/dbx"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertForUser(ctx context.Context, session *models.Session) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (token, user_id, issued_at, expires_at)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (user_id) DO UPDATE
             SET token = EXCLUDED.token,
                 issued_at = EXCLUDED.issued_at,
                 expires_at = EXCLUDED.expires_at,
                 revoked_at = NULL
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.Token, session.UserID, session.IssuedAt, session.ExpiresAt).Scan(&session.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) getByToken(ctx context.Context, token string, forUpdate bool) (*models.Session, error) {
	query :=
		`SELECT s.id, s.token, s.user_id, s.issued_at, s.expires_at, s.revoked_at, u.uuid, u.role
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1`
	if forUpdate {
		query += ` FOR UPDATE OF s`
	}

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID, &session.Token, &session.UserID,
		&session.IssuedAt, &session.ExpiresAt, &session.RevokedAt,
		&session.Subject.UUID, &session.Subject.Role)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	return r.getByToken(ctx, token, false)
}

func (r *PostgresRepository) GetByTokenForUpdate(ctx context.Context, token string) (*models.Session, error) {
	return r.getByToken(ctx, token, true)
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string, at time.Time) error {

	query := `UPDATE sessions SET revoked_at = $2 WHERE token = $1 AND revoked_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, token, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
