package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/repomanager"
)

// QuestionService manages question create/read/edit/delete. Editing is
// owner-only; deletion allows admin override. The asymmetry is deliberate.
type QuestionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *Guard
}

func NewQuestionService(db *sql.DB, m repomanager.RepositoryManager, guard *Guard) *QuestionService {
	return &QuestionService{db: db, repomanager: m, guard: guard}
}

// Create posts a new question owned by the acting subject.
func (s *QuestionService) Create(ctx context.Context, token, content string) (*models.Question, error) {
	session, err := s.guard.SignedIn(ctx, token, "post a question")
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		UUID:      uuid.NewString(),
		OwnerUUID: session.Subject.UUID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	created, err := s.repomanager.Questions(s.db).Create(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}

	return created, nil
}

// All lists every question for any signed-in caller.
func (s *QuestionService) All(ctx context.Context, token string) ([]*models.Question, error) {
	if _, err := s.guard.SignedIn(ctx, token, "get all questions"); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Questions(s.db).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	return list, nil
}

// AllByUser lists the questions posted by the user behind userUUID.
func (s *QuestionService) AllByUser(ctx context.Context, token, userUUID string) ([]*models.Question, error) {
	if _, err := s.guard.SignedIn(ctx, token, "get all questions posted by a specific user"); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(s.db).GetByUUID(ctx, userUUID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUserNotFound.WithDescription(
				"User with entered uuid whose question details are to be seen does not exist")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	list, err := s.repomanager.Questions(s.db).AllByOwner(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	return list, nil
}

// Edit replaces the question's content. Owner-only: even an admin editing
// someone else's question is denied.
func (s *QuestionService) Edit(ctx context.Context, token, questionUUID, content string) (*models.Question, error) {
	session, err := s.guard.SignedIn(ctx, token, "edit a question")
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Questions(s.db)

	question, err := repo.GetByUUID(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("looking up question: %w", err)
	}

	if err := s.guard.CheckOwner(session, question.OwnerUUID, "Only the question owner can edit the question"); err != nil {
		return nil, err
	}

	if err := repo.UpdateContent(ctx, questionUUID, content); err != nil {
		return nil, fmt.Errorf("updating question: %w", err)
	}

	question.Content = content
	return question, nil
}

// Delete removes the question. Permitted for the owner or an admin.
func (s *QuestionService) Delete(ctx context.Context, token, questionUUID string) (*models.Question, error) {
	session, err := s.guard.SignedIn(ctx, token, "delete a question")
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Questions(s.db)

	question, err := repo.GetByUUID(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("looking up question: %w", err)
	}

	if err := s.guard.CheckOwnerOrAdmin(session, question.OwnerUUID, "Only the question owner or admin can delete the question"); err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, questionUUID); err != nil {
		return nil, fmt.Errorf("deleting question: %w", err)
	}

	return question, nil
}
