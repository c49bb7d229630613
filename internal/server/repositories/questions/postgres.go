package questions

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

func (r *PostgresRepository) Create(ctx context.Context, question *models.Question) (*models.Question, error) {

	query :=
		`INSERT INTO questions (uuid, owner_uuid, content, created_at)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		question.UUID, question.OwnerUUID, question.Content, question.CreatedAt).Scan(&question.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return question, nil
}

func (r *PostgresRepository) GetByUUID(ctx context.Context, uuid string) (*models.Question, error) {
	query :=
		`SELECT id, uuid, owner_uuid, content, created_at FROM questions
		 WHERE uuid = $1
		 `

	question := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&question.ID, &question.UUID, &question.OwnerUUID, &question.Content, &question.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return question, nil
}

func (r *PostgresRepository) queryList(ctx context.Context, query string, args ...any) ([]*models.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Question
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.UUID, &q.OwnerUUID, &q.Content, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]*models.Question, error) {
	query :=
		`SELECT id, uuid, owner_uuid, content, created_at FROM questions
		 ORDER BY created_at
		 `
	return r.queryList(ctx, query)
}

func (r *PostgresRepository) AllByOwner(ctx context.Context, ownerUUID string) ([]*models.Question, error) {
	query :=
		`SELECT id, uuid, owner_uuid, content, created_at FROM questions
		 WHERE owner_uuid = $1
		 ORDER BY created_at
		 `
	return r.queryList(ctx, query, ownerUUID)
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, uuid string, content string) error {
	query := `UPDATE questions SET content = $2 WHERE uuid = $1`

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
	query := `DELETE FROM questions WHERE uuid = $1`

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
