package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
	"github.com/dmitrijs2005/qaboard/internal/server/password"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/repomanager"
)

// UserService handles signup, profile reads, and admin-only user deletion.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *password.Hasher
	guard       *Guard
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *password.Hasher, guard *Guard) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, guard: guard}
}

// SignUp creates a credential. Username and email are each globally unique:
// a taken username fails with SGR-001, a taken email with SGR-002 (checked
// in that order). The role defaults to nonadmin and is immutable afterwards.
func (s *UserService) SignUp(ctx context.Context, user *models.User, plaintext string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, user.UserName); err == nil {
		return nil, apperr.ErrDuplicateUsername
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if _, err := repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, apperr.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	salt := s.hasher.NewSalt()
	digest, err := s.hasher.Hash(plaintext, salt)
	if err != nil {
		return nil, err
	}

	user.UUID = uuid.NewString()
	user.Salt = salt
	user.PasswordHash = digest
	if user.Role == "" {
		user.Role = models.RoleNonAdmin
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return created, nil
}

// GetUserProfile returns the profile behind userUUID for any signed-in caller.
func (s *UserService) GetUserProfile(ctx context.Context, token, userUUID string) (*models.User, error) {
	if _, err := s.guard.SignedIn(ctx, token, "get user details"); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the user behind userUUID. Admin-only; the record
// store's foreign keys cascade to the user's questions, answers, and session.
func (s *UserService) DeleteUser(ctx context.Context, token, userUUID string) (*models.User, error) {
	session, err := s.guard.SignedIn(ctx, token, "")
	if err != nil {
		return nil, err
	}

	if err := s.guard.CheckAdmin(session, "Unauthorized Access, Entered user is not an admin"); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := repo.Delete(ctx, userUUID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	return user, nil
}
