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

// AnswerService manages answers. Same edit/delete asymmetry as questions:
// edit is owner-only, delete allows admin override.
type AnswerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *Guard
}

func NewAnswerService(db *sql.DB, m repomanager.RepositoryManager, guard *Guard) *AnswerService {
	return &AnswerService{db: db, repomanager: m, guard: guard}
}

// Create posts an answer to the question behind questionUUID. The question
// is checked before the token: an invalid question reports QUES-001 even to
// an anonymous caller.
func (s *AnswerService) Create(ctx context.Context, token, questionUUID, content string) (*models.Answer, error) {
	if _, err := s.repomanager.Questions(s.db).GetByUUID(ctx, questionUUID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrQuestionNotFound.WithDescription("The question entered is invalid")
		}
		return nil, fmt.Errorf("looking up question: %w", err)
	}

	session, err := s.guard.SignedIn(ctx, token, "post an answer")
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		UUID:         uuid.NewString(),
		QuestionUUID: questionUUID,
		OwnerUUID:    session.Subject.UUID,
		Content:      content,
		CreatedAt:    time.Now(),
	}

	created, err := s.repomanager.Answers(s.db).Create(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("creating answer: %w", err)
	}

	return created, nil
}

// Edit replaces the answer's content. Owner-only, no admin override.
func (s *AnswerService) Edit(ctx context.Context, token, answerUUID, content string) (*models.Answer, error) {
	session, err := s.guard.SignedIn(ctx, token, "edit an answer")
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Answers(s.db)

	answer, err := repo.GetByUUID(ctx, answerUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("looking up answer: %w", err)
	}

	if err := s.guard.CheckOwner(session, answer.OwnerUUID, "Only the answer owner can edit the answer"); err != nil {
		return nil, err
	}

	if err := repo.UpdateContent(ctx, answerUUID, content); err != nil {
		return nil, fmt.Errorf("updating answer: %w", err)
	}

	answer.Content = content
	return answer, nil
}

// Delete removes the answer. Permitted for the owner or an admin.
func (s *AnswerService) Delete(ctx context.Context, token, answerUUID string) (*models.Answer, error) {
	session, err := s.guard.SignedIn(ctx, token, "delete an answer")
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Answers(s.db)

	answer, err := repo.GetByUUID(ctx, answerUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("looking up answer: %w", err)
	}

	if err := s.guard.CheckOwnerOrAdmin(session, answer.OwnerUUID, "Only the answer owner or admin can delete the answer"); err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, answerUUID); err != nil {
		return nil, fmt.Errorf("deleting answer: %w", err)
	}

	return answer, nil
}

// AllForQuestion lists the answers posted to a question.
func (s *AnswerService) AllForQuestion(ctx context.Context, token, questionUUID string) ([]*models.Answer, error) {
	if _, err := s.guard.SignedIn(ctx, token, "get the answers"); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Questions(s.db).GetByUUID(ctx, questionUUID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrQuestionNotFound.WithDescription(
				"The question with entered uuid whose details are to be seen does not exist")
		}
		return nil, fmt.Errorf("looking up question: %w", err)
	}

	list, err := s.repomanager.Answers(s.db).AllForQuestion(ctx, questionUUID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}

	return list, nil
}
