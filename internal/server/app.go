// Package server initializes and runs the forum application server.
// It opens the database, applies migrations, wires the services, and starts
// the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/qaboard/internal/logging"
	"github.com/dmitrijs2005/qaboard/internal/server/config"
	"github.com/dmitrijs2005/qaboard/internal/server/password"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/qaboard/internal/server/rest"
	"github.com/dmitrijs2005/qaboard/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	tokenService      *services.TokenService
	userService       *services.UserService
	questionService   *services.QuestionService
	answerService     *services.AnswerService
	attachmentService *services.AttachmentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := password.NewHasher()
	tokens := services.NewTokenService(db, rm, hasher, cfg)
	guard := services.NewGuard(tokens)

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		tokenService:      tokens,
		userService:       services.NewUserService(db, rm, hasher, guard),
		questionService:   services.NewQuestionService(db, rm, guard),
		answerService:     services.NewAnswerService(db, rm, guard),
		attachmentService: services.NewAttachmentService(cfg, guard),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger,
		app.tokenService, app.userService, app.questionService,
		app.answerService, app.attachmentService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
