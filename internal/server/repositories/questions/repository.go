package questions

import (
	"context"

	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, question *models.Question) (*models.Question, error)
	GetByUUID(ctx context.Context, uuid string) (*models.Question, error)
	All(ctx context.Context) ([]*models.Question, error)
	AllByOwner(ctx context.Context, ownerUUID string) ([]*models.Question, error)
	UpdateContent(ctx context.Context, uuid string, content string) error
	Delete(ctx context.Context, uuid string) error
}
