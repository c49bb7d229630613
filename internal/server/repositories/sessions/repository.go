package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type Repository interface {
	// UpsertForUser saves the session, replacing any previous row for the
	// same subject. One currently resolvable session per user.
	UpsertForUser(ctx context.Context, session *models.Session) (*models.Session, error)

	// GetByToken resolves a token to its session, including the subject's
	// uuid and role.
	GetByToken(ctx context.Context, token string) (*models.Session, error)

	// GetByTokenForUpdate is GetByToken with a row lock; callers must run it
	// inside a transaction.
	GetByTokenForUpdate(ctx context.Context, token string) (*models.Session, error)

	// Revoke stamps revoked_at on the session row.
	Revoke(ctx context.Context, token string, at time.Time) error
}
