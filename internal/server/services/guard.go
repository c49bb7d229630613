package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/authz"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

// Guard is the per-operation composition every business operation goes
// through: resolve the token, apply the operation's policy against the
// target's ownership metadata, then hand control back. It never touches
// resources itself.
type Guard struct {
	tokens *TokenService
}

func NewGuard(tokens *TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// SignedIn resolves the token and applies the signed-in checkpoint. The
// action phrase parameterizes the ATHR-002 description ("User is signed
// out.Sign in first to <action>"); an empty action keeps the plain message.
// Resolution errors propagate unchanged otherwise.
func (g *Guard) SignedIn(ctx context.Context, token string, action string) (*models.Session, error) {
	session, err := g.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrSignedOut) && action != "" {
			return nil, apperr.ErrSignedOut.WithDescription("User is signed out.Sign in first to " + action)
		}
		return nil, err
	}
	if err := authz.RequireSignedIn(session.Subject); err != nil {
		return nil, err
	}
	return session, nil
}

// CheckOwner denies with the given ATHR-003 description unless the session's
// subject owns the resource. Admins get no override here.
func (g *Guard) CheckOwner(session *models.Session, ownerUUID, denyDescription string) error {
	if err := authz.RequireOwner(session.Subject, ownerUUID); err != nil {
		return apperr.ErrForbidden.WithDescription(denyDescription)
	}
	return nil
}

// CheckOwnerOrAdmin denies unless the subject owns the resource or is an admin.
func (g *Guard) CheckOwnerOrAdmin(session *models.Session, ownerUUID, denyDescription string) error {
	if err := authz.RequireOwnerOrAdmin(session.Subject, ownerUUID); err != nil {
		return apperr.ErrForbidden.WithDescription(denyDescription)
	}
	return nil
}

// CheckAdmin denies unless the subject is an admin.
func (g *Guard) CheckAdmin(session *models.Session, denyDescription string) error {
	if err := authz.RequireAdmin(session.Subject); err != nil {
		return apperr.ErrForbidden.WithDescription(denyDescription)
	}
	return nil
}
