package answers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, answer *models.Answer) (*models.Answer, error) {

	query :=
		`INSERT INTO answers (uuid, question_uuid, owner_uuid, content, created_at)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		answer.UUID, answer.QuestionUUID, answer.OwnerUUID, answer.Content, answer.CreatedAt).Scan(&answer.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return answer, nil
}

func (r *PostgresRepository) GetByUUID(ctx context.Context, uuid string) (*models.Answer, error) {
	query :=
		`SELECT id, uuid, question_uuid, owner_uuid, content, created_at FROM answers
		 WHERE uuid = $1
		 `

	answer := &models.Answer{}
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&answer.ID, &answer.UUID, &answer.QuestionUUID, &answer.OwnerUUID,
		&answer.Content, &answer.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return answer, nil
}

func (r *PostgresRepository) AllForQuestion(ctx context.Context, questionUUID string) ([]*models.Answer, error) {
	query :=
		`SELECT id, uuid, question_uuid, owner_uuid, content, created_at FROM answers
		 WHERE question_uuid = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, questionUUID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Answer
	for rows.Next() {
		a := &models.Answer{}
		if err := rows.Scan(&a.ID, &a.UUID, &a.QuestionUUID, &a.OwnerUUID, &a.Content, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, uuid string, content string) error {
	query := `UPDATE answers SET content = $2 WHERE uuid = $1`

	res, err := r.db.ExecContext(ctx, query, uuid, content)
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

func (r *PostgresRepository) Delete(ctx context.Context, uuid string) error {
	query := `DELETE FROM answers WHERE uuid = $1`

	res, err := r.db.ExecContext(ctx, query, uuid)
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
