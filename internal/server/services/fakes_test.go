package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/dbx"
	"github.com/dmitrijs2005/qaboard/internal/server/config"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
	"github.com/dmitrijs2005/qaboard/internal/server/password"
	answersrepo "github.com/dmitrijs2005/qaboard/internal/server/repositories/answers"
	questionsrepo "github.com/dmitrijs2005/qaboard/internal/server/repositories/questions"
	sessionsrepo "github.com/dmitrijs2005/qaboard/internal/server/repositories/sessions"
	usersrepo "github.com/dmitrijs2005/qaboard/internal/server/repositories/users"
)

// --- in-memory fakes backing the service tests ---

type fakeUsersRepo struct {
	users []*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = fmt.Sprintf("%d", len(f.users)+1)
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.UserName == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	for _, u := range f.users {
		if u.UUID == uuid {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Delete(ctx context.Context, uuid string) error {
	for i, u := range f.users {
		if u.UUID == uuid {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeSessionsRepo struct {
	byToken map[string]*models.Session
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{byToken: map[string]*models.Session{}}
}

func (f *fakeSessionsRepo) UpsertForUser(ctx context.Context, s *models.Session) (*models.Session, error) {
	for token, existing := range f.byToken {
		if existing.UserID == s.UserID {
			delete(f.byToken, token)
		}
	}
	s.ID = fmt.Sprintf("%d", len(f.byToken)+1)
	f.byToken[s.Token] = s
	return s, nil
}

func (f *fakeSessionsRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSessionsRepo) GetByTokenForUpdate(ctx context.Context, token string) (*models.Session, error) {
	return f.GetByToken(ctx, token)
}

func (f *fakeSessionsRepo) Revoke(ctx context.Context, token string, at time.Time) error {
	s, ok := f.byToken[token]
	if !ok || s.RevokedAt != nil {
		return common.ErrorNotFound
	}
	s.RevokedAt = &at
	return nil
}

type fakeQuestionsRepo struct {
	questions []*models.Question
}

func (f *fakeQuestionsRepo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	q.ID = fmt.Sprintf("%d", len(f.questions)+1)
	f.questions = append(f.questions, q)
	return q, nil
}

func (f *fakeQuestionsRepo) GetByUUID(ctx context.Context, uuid string) (*models.Question, error) {
	for _, q := range f.questions {
		if q.UUID == uuid {
			return q, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeQuestionsRepo) All(ctx context.Context) ([]*models.Question, error) {
	return f.questions, nil
}

func (f *fakeQuestionsRepo) AllByOwner(ctx context.Context, ownerUUID string) ([]*models.Question, error) {
	var list []*models.Question
	for _, q := range f.questions {
		if q.OwnerUUID == ownerUUID {
			list = append(list, q)
		}
	}
	return list, nil
}

func (f *fakeQuestionsRepo) UpdateContent(ctx context.Context, uuid, content string) error {
	for _, q := range f.questions {
		if q.UUID == uuid {
			q.Content = content
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeQuestionsRepo) Delete(ctx context.Context, uuid string) error {
	for i, q := range f.questions {
		if q.UUID == uuid {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeAnswersRepo struct {
	answers []*models.Answer
}

func (f *fakeAnswersRepo) Create(ctx context.Context, a *models.Answer) (*models.Answer, error) {
	a.ID = fmt.Sprintf("%d", len(f.answers)+1)
	f.answers = append(f.answers, a)
	return a, nil
}

func (f *fakeAnswersRepo) GetByUUID(ctx context.Context, uuid string) (*models.Answer, error) {
	for _, a := range f.answers {
		if a.UUID == uuid {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAnswersRepo) AllForQuestion(ctx context.Context, questionUUID string) ([]*models.Answer, error) {
	var list []*models.Answer
	for _, a := range f.answers {
		if a.QuestionUUID == questionUUID {
			list = append(list, a)
		}
	}
	return list, nil
}

func (f *fakeAnswersRepo) UpdateContent(ctx context.Context, uuid, content string) error {
	for _, a := range f.answers {
		if a.UUID == uuid {
			a.Content = content
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAnswersRepo) Delete(ctx context.Context, uuid string) error {
	for i, a := range f.answers {
		if a.UUID == uuid {
			f.answers = append(f.answers[:i], f.answers[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	q *fakeQuestionsRepo
	a *fakeAnswersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{},
		s: newFakeSessionsRepo(),
		q: &fakeQuestionsRepo{},
		a: &fakeAnswersRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository   { return m.s }
func (m *fakeRepoManager) Questions(db dbx.DBTX) questionsrepo.Repository { return m.q }
func (m *fakeRepoManager) Answers(db dbx.DBTX) answersrepo.Repository     { return m.a }

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:               "k",
		SessionValidityDuration: 8 * time.Hour,
	}
}

func newTokenService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *TokenService {
	t.Helper()
	return NewTokenService(db, rm, password.NewHasher(), testConfig())
}

type testEnv struct {
	rm        *fakeRepoManager
	tokens    *TokenService
	guard     *Guard
	users     *UserService
	questions *QuestionService
	answers   *AnswerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	rm := newFakeRepoManager()
	hasher := password.NewHasher()
	tokens := NewTokenService(nil, rm, hasher, testConfig())
	guard := NewGuard(tokens)
	return &testEnv{
		rm:        rm,
		tokens:    tokens,
		guard:     guard,
		users:     NewUserService(nil, rm, hasher, guard),
		questions: NewQuestionService(nil, rm, guard),
		answers:   NewAnswerService(nil, rm, guard),
	}
}

// signIn seeds a user and authenticates them, returning the bearer token.
func (e *testEnv) signIn(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	u := seedUser(t, e.rm, username, "pw-"+username, role)
	session, err := e.tokens.Authenticate(context.Background(), username, "pw-"+username)
	if err != nil {
		t.Fatalf("authenticate %s: %v", username, err)
	}
	return u, session.Token
}

// seedUser registers a user directly in the fake store with a properly
// salted and hashed password.
func seedUser(t *testing.T, rm *fakeRepoManager, username, plaintext string, role models.Role) *models.User {
	t.Helper()
	h := password.NewHasher()
	salt := h.NewSalt()
	digest, err := h.Hash(plaintext, salt)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	u := &models.User{
		UUID:         "uuid-" + username,
		UserName:     username,
		Email:        username + "@example.com",
		PasswordHash: digest,
		Salt:         salt,
		Role:         role,
	}
	if _, err := rm.u.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
