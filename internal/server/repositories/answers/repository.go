package answers

import (
	"context"

	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, answer *models.Answer) (*models.Answer, error)
	GetByUUID(ctx context.Context, uuid string) (*models.Answer, error)
	AllForQuestion(ctx context.Context, questionUUID string) ([]*models.Answer, error)
	UpdateContent(ctx context.Context, uuid string, content string) error
	Delete(ctx context.Context, uuid string) error
}
