// Package rest exposes the forum services over HTTP/JSON.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/qaboard/internal/logging"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

// TokenProvider is the slice of TokenService the transport needs.
type TokenProvider interface {
	Authenticate(ctx context.Context, username, password string) (*models.Session, error)
	Revoke(ctx context.Context, token string) (*models.Session, error)
}

type UserProvider interface {
	SignUp(ctx context.Context, user *models.User, plaintext string) (*models.User, error)
	GetUserProfile(ctx context.Context, token, userUUID string) (*models.User, error)
	DeleteUser(ctx context.Context, token, userUUID string) (*models.User, error)
}

type QuestionProvider interface {
	Create(ctx context.Context, token, content string) (*models.Question, error)
	All(ctx context.Context, token string) ([]*models.Question, error)
	AllByUser(ctx context.Context, token, userUUID string) ([]*models.Question, error)
	Edit(ctx context.Context, token, questionUUID, content string) (*models.Question, error)
	Delete(ctx context.Context, token, questionUUID string) (*models.Question, error)
}

type AnswerProvider interface {
	Create(ctx context.Context, token, questionUUID, content string) (*models.Answer, error)
	Edit(ctx context.Context, token, answerUUID, content string) (*models.Answer, error)
	Delete(ctx context.Context, token, answerUUID string) (*models.Answer, error)
	AllForQuestion(ctx context.Context, token, questionUUID string) ([]*models.Answer, error)
}

type AttachmentProvider interface {
	UploadURL(ctx context.Context, token string) (string, string, error)
	DownloadURL(ctx context.Context, token, key string) (string, error)
}

// RESTServer routes HTTP requests to the business services. All
// authentication and authorization decisions stay in the service layer; the
// transport only moves headers and JSON.
type RESTServer struct {
	address     string
	logger      logging.Logger
	router      chi.Router
	tokens      TokenProvider
	users       UserProvider
	questions   QuestionProvider
	answers     AnswerProvider
	attachments AttachmentProvider
}

func NewRESTServer(a string, l logging.Logger, ts TokenProvider, us UserProvider,
	qs QuestionProvider, as AnswerProvider, ats AttachmentProvider) *RESTServer {
	s := &RESTServer{
		address:     a,
		logger:      l.With("module", "rest_server"),
		router:      chi.NewRouter(),
		tokens:      ts,
		users:       us,
		questions:   qs,
		answers:     as,
		attachments: ats,
	}
	s.routes()
	return s
}

func (s *RESTServer) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(requestLogger(s.logger))

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/signin", s.handleSignin)
		r.Post("/signout", s.handleSignout)
	})

	r.Get("/userprofile/{userId}", s.handleUserProfile)
	r.Delete("/admin/user/{userId}", s.handleUserDelete)

	r.Route("/question", func(r chi.Router) {
		r.Post("/create", s.handleQuestionCreate)
		r.Get("/all", s.handleQuestionAll)
		r.Get("/all/{userId}", s.handleQuestionAllByUser)
		r.Put("/edit/{questionId}", s.handleQuestionEdit)
		r.Delete("/delete/{questionId}", s.handleQuestionDelete)
		r.Post("/{questionId}/answer/create", s.handleAnswerCreate)
	})

	r.Route("/answer", func(r chi.Router) {
		r.Put("/edit/{answerId}", s.handleAnswerEdit)
		r.Delete("/delete/{answerId}", s.handleAnswerDelete)
		r.Get("/all/{questionId}", s.handleAnswerAllForQuestion)
	})

	r.Route("/attachment", func(r chi.Router) {
		r.Post("/upload-url", s.handleAttachmentUploadURL)
		r.Get("/download-url", s.handleAttachmentDownloadURL)
	})
}

// Handler returns the router, mostly for tests.
func (s *RESTServer) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
