package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/qaboard/internal/dbx"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/answers"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/questions"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/users"
)

// RepositoryManager vends repository instances bound to a DB handle or an
// open transaction, plus the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Questions(db dbx.DBTX) questions.Repository
	Answers(db dbx.DBTX) answers.Repository
}
