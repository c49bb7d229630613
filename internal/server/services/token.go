// Package services contains the server-side business logic. This file
// implements TokenService: credential verification and the session-token
// lifecycle (issue, resolve, revoke).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/dbx"
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/auth"
	"github.com/dmitrijs2005/qaboard/internal/server/config"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
	"github.com/dmitrijs2005/qaboard/internal/server/password"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/repomanager"
)

// TokenService issues, resolves, and revokes sessions.
//
// Session policy is upsert-by-subject: a re-login replaces the subject's
// single sessions row, so at most one token per user resolves at any time.
// Expiry is checked lazily against wall clock on every resolve; nothing
// evicts expired rows.
type TokenService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	hasher          *password.Hasher
	jwtSecret       []byte
	sessionValidity time.Duration

	// now is a test seam.
	now func() time.Time
}

// NewTokenService constructs a TokenService using repositories and server config.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, hasher *password.Hasher, cfg *config.Config) *TokenService {
	return &TokenService{
		db:              db,
		repomanager:     m,
		hasher:          hasher,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		now:             time.Now,
	}
}

// Authenticate verifies the username/password pair and issues a fresh
// session. An unknown username fails with ATH-001, a wrong password with
// ATH-002 — the asymmetry is part of the wire contract.
func (s *TokenService) Authenticate(ctx context.Context, username, plaintext string) (*models.Session, error) {
	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUnknownUser
		}
		return nil, fmt.Errorf("looking up credential: %w", err)
	}

	ok, err := s.hasher.Verify(plaintext, user.Salt, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBadPassword
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.sessionValidity)

	token, err := auth.GenerateToken(user.UUID, s.jwtSecret, issuedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Subject:   models.Subject{UUID: user.UUID, Role: user.Role},
	}

	if _, err := s.repomanager.Sessions(s.db).UpsertForUser(ctx, session); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	return session, nil
}

// Resolve maps a bearer token to its session. Unknown (or forged) tokens
// fail with ATHR-001; revoked or expired sessions with ATHR-002. Expiry and
// explicit sign-out are deliberately indistinguishable to callers.
func (s *TokenService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if _, err := auth.GetSubjectFromToken(token, s.jwtSecret); err != nil {
		return nil, apperr.ErrNotSignedIn
	}

	session, err := s.repomanager.Sessions(s.db).GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrNotSignedIn
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if !session.Usable(s.now()) {
		return nil, apperr.ErrSignedOut
	}

	return session, nil
}

// Revoke terminates the session behind the token. The token must currently
// be usable; revoking an unknown, expired, or already-revoked token fails
// with SGR-001. The row is locked for the duration of the transaction so two
// concurrent sign-outs cannot both succeed.
func (s *TokenService) Revoke(ctx context.Context, token string) (*models.Session, error) {
	var revoked *models.Session

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)

		session, err := repo.GetByTokenForUpdate(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return apperr.ErrSignOutNotSignedIn
			}
			return fmt.Errorf("looking up session: %w", err)
		}

		now := s.now()
		if !session.Usable(now) {
			return apperr.ErrSignOutNotSignedIn
		}

		if err := repo.Revoke(ctx, token, now); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return apperr.ErrSignOutNotSignedIn
			}
			return fmt.Errorf("revoking session: %w", err)
		}

		session.RevokedAt = &now
		revoked = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	return revoked, nil
}
