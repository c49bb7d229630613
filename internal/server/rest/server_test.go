package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/qaboard/internal/logging"
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

// ---- fakes ----

type fakeTokens struct {
	session *models.Session
	authErr error
	revoked *models.Session
	revErr  error

	gotUsername string
	gotPassword string
	gotToken    string
}

func (f *fakeTokens) Authenticate(ctx context.Context, username, password string) (*models.Session, error) {
	f.gotUsername, f.gotPassword = username, password
	return f.session, f.authErr
}

func (f *fakeTokens) Revoke(ctx context.Context, token string) (*models.Session, error) {
	f.gotToken = token
	return f.revoked, f.revErr
}

type fakeUsers struct {
	signedUp *models.User
	signErr  error
	profile  *models.User
	profErr  error
	deleted  *models.User
	delErr   error

	gotToken string
	gotUUID  string
}

func (f *fakeUsers) SignUp(ctx context.Context, user *models.User, plaintext string) (*models.User, error) {
	return f.signedUp, f.signErr
}

func (f *fakeUsers) GetUserProfile(ctx context.Context, token, userUUID string) (*models.User, error) {
	f.gotToken, f.gotUUID = token, userUUID
	return f.profile, f.profErr
}

func (f *fakeUsers) DeleteUser(ctx context.Context, token, userUUID string) (*models.User, error) {
	f.gotToken, f.gotUUID = token, userUUID
	return f.deleted, f.delErr
}

type fakeQuestions struct {
	question *models.Question
	list     []*models.Question
	err      error

	gotToken   string
	gotUUID    string
	gotContent string
}

func (f *fakeQuestions) Create(ctx context.Context, token, content string) (*models.Question, error) {
	f.gotToken, f.gotContent = token, content
	return f.question, f.err
}

func (f *fakeQuestions) All(ctx context.Context, token string) ([]*models.Question, error) {
	f.gotToken = token
	return f.list, f.err
}

func (f *fakeQuestions) AllByUser(ctx context.Context, token, userUUID string) ([]*models.Question, error) {
	f.gotToken, f.gotUUID = token, userUUID
	return f.list, f.err
}

func (f *fakeQuestions) Edit(ctx context.Context, token, questionUUID, content string) (*models.Question, error) {
	f.gotToken, f.gotUUID, f.gotContent = token, questionUUID, content
	return f.question, f.err
}

func (f *fakeQuestions) Delete(ctx context.Context, token, questionUUID string) (*models.Question, error) {
	f.gotToken, f.gotUUID = token, questionUUID
	return f.question, f.err
}

type fakeAnswers struct {
	answer *models.Answer
	list   []*models.Answer
	err    error

	gotQuestionUUID string
	gotAnswerUUID   string
}

func (f *fakeAnswers) Create(ctx context.Context, token, questionUUID, content string) (*models.Answer, error) {
	f.gotQuestionUUID = questionUUID
	return f.answer, f.err
}

func (f *fakeAnswers) Edit(ctx context.Context, token, answerUUID, content string) (*models.Answer, error) {
	f.gotAnswerUUID = answerUUID
	return f.answer, f.err
}

func (f *fakeAnswers) Delete(ctx context.Context, token, answerUUID string) (*models.Answer, error) {
	f.gotAnswerUUID = answerUUID
	return f.answer, f.err
}

func (f *fakeAnswers) AllForQuestion(ctx context.Context, token, questionUUID string) ([]*models.Answer, error) {
	f.gotQuestionUUID = questionUUID
	return f.list, f.err
}

type fakeAttachments struct {
	key    string
	url    string
	err    error
	gotKey string
}

func (f *fakeAttachments) UploadURL(ctx context.Context, token string) (string, string, error) {
	return f.key, f.url, f.err
}

func (f *fakeAttachments) DownloadURL(ctx context.Context, token, key string) (string, error) {
	f.gotKey = key
	return f.url, f.err
}

type testServer struct {
	srv         *RESTServer
	tokens      *fakeTokens
	users       *fakeUsers
	questions   *fakeQuestions
	answers     *fakeAnswers
	attachments *fakeAttachments
}

func newTestServer() *testServer {
	ts := &testServer{
		tokens:      &fakeTokens{},
		users:       &fakeUsers{},
		questions:   &fakeQuestions{},
		answers:     &fakeAnswers{},
		attachments: &fakeAttachments{},
	}
	ts.srv = NewRESTServer(":0", nopLogger{}, ts.tokens, ts.users, ts.questions, ts.answers, ts.attachments)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// ---- tests ----

func TestSignup(t *testing.T) {
	ts := newTestServer()
	ts.users.signedUp = &models.User{UUID: "u-1", UserName: "alice"}

	rec := ts.do(t, http.MethodPost, "/user/signup", "", map[string]string{
		"userName": "alice", "emailAddress": "a@example.com", "password": "pw",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["id"] != "u-1" || body["status"] != "USER SUCCESSFULLY REGISTERED" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSignup_Conflict(t *testing.T) {
	ts := newTestServer()
	ts.users.signErr = apperr.ErrDuplicateUsername

	rec := ts.do(t, http.MethodPost, "/user/signup", "", map[string]string{"userName": "alice"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "SGR-001" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["message"] != "Try any other Username, this Username has already been taken" {
		t.Fatalf("unexpected message: %q", body["message"])
	}
}

func TestSignin(t *testing.T) {
	ts := newTestServer()
	ts.tokens.session = &models.Session{
		Token:     "tok-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(8 * time.Hour),
		Subject:   models.Subject{UUID: "u-1", Role: models.RoleNonAdmin},
	}

	creds := base64.StdEncoding.EncodeToString([]byte("alice:pw"))
	rec := ts.do(t, http.MethodPost, "/user/signin", "Basic "+creds, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ts.tokens.gotUsername != "alice" || ts.tokens.gotPassword != "pw" {
		t.Fatalf("credentials not decoded: %q %q", ts.tokens.gotUsername, ts.tokens.gotPassword)
	}
	if got := rec.Header().Get("access-token"); got != "tok-1" {
		t.Fatalf("access-token header = %q", got)
	}
	body := decodeBody(t, rec)
	if body["message"] != "SIGNED IN SUCCESSFULLY" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSignin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		authErr    error
		wantStatus int
		wantCode   string
	}{
		{"unknown user", "Basic " + base64.StdEncoding.EncodeToString([]byte("ghost:pw")), apperr.ErrUnknownUser, http.StatusUnauthorized, "ATH-001"},
		{"wrong password", "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:bad")), apperr.ErrBadPassword, http.StatusUnauthorized, "ATH-002"},
		{"malformed header", "Basic not-base64!!!", nil, http.StatusBadRequest, "INP-001"},
		{"missing header", "", nil, http.StatusBadRequest, "INP-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.tokens.authErr = tt.authErr

			rec := ts.do(t, http.MethodPost, "/user/signin", tt.authHeader, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["code"] != tt.wantCode {
				t.Fatalf("code = %q, want %q", body["code"], tt.wantCode)
			}
		})
	}
}

func TestSignout(t *testing.T) {
	ts := newTestServer()
	now := time.Now()
	ts.tokens.revoked = &models.Session{
		Token:     "tok-1",
		RevokedAt: &now,
		Subject:   models.Subject{UUID: "u-1"},
	}

	rec := ts.do(t, http.MethodPost, "/user/signout", "Bearer tok-1", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ts.tokens.gotToken != "tok-1" {
		t.Fatalf("bearer prefix not stripped: %q", ts.tokens.gotToken)
	}
	body := decodeBody(t, rec)
	if body["message"] != "SIGNED OUT SUCCESSFULLY" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSignout_NotSignedIn(t *testing.T) {
	ts := newTestServer()
	ts.tokens.revErr = apperr.ErrSignOutNotSignedIn

	rec := ts.do(t, http.MethodPost, "/user/signout", "tok-dead", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "SGR-001" || body["message"] != "User is not Signed in" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUserProfile(t *testing.T) {
	ts := newTestServer()
	ts.users.profile = &models.User{UserName: "bob", FirstName: "Bob", Email: "b@example.com"}

	rec := ts.do(t, http.MethodGet, "/userprofile/u-2", "Bearer tok-1", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ts.users.gotUUID != "u-2" {
		t.Fatalf("path param not routed: %q", ts.users.gotUUID)
	}
	body := decodeBody(t, rec)
	if body["userName"] != "bob" || body["emailAddress"] != "b@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUserDelete_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not signed in", apperr.ErrNotSignedIn, http.StatusUnauthorized},
		{"signed out", apperr.ErrSignedOut, http.StatusUnauthorized},
		{"not an admin", apperr.ErrForbidden, http.StatusForbidden},
		{"unknown user", apperr.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.users.delErr = tt.err

			rec := ts.do(t, http.MethodDelete, "/admin/user/u-2", "Bearer tok-1", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestQuestionEndpoints(t *testing.T) {
	ts := newTestServer()
	ts.questions.question = &models.Question{UUID: "q-1", Content: "Why?"}
	ts.questions.list = []*models.Question{
		{UUID: "q-1", Content: "Why?"},
		{UUID: "q-2", Content: "How?"},
	}

	rec := ts.do(t, http.MethodPost, "/question/create", "Bearer tok-1", map[string]string{"content": "Why?"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "QUESTION CREATED" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = ts.do(t, http.MethodGet, "/question/all", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("all status = %d, want 200", rec.Code)
	}
	var list []questionResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "q-1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = ts.do(t, http.MethodGet, "/question/all/u-1", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK || ts.questions.gotUUID != "u-1" {
		t.Fatalf("all-by-user status = %d, uuid = %q", rec.Code, ts.questions.gotUUID)
	}

	rec = ts.do(t, http.MethodPut, "/question/edit/q-1", "Bearer tok-1", map[string]string{"content": "edited"})
	if rec.Code != http.StatusOK || ts.questions.gotContent != "edited" {
		t.Fatalf("edit status = %d, content = %q", rec.Code, ts.questions.gotContent)
	}
	if body := decodeBody(t, rec); body["status"] != "QUESTION EDITED" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = ts.do(t, http.MethodDelete, "/question/delete/q-1", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "QUESTION DELETED" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestQuestionEdit_Forbidden(t *testing.T) {
	ts := newTestServer()
	ts.questions.err = apperr.ErrForbidden.WithDescription("Only the question owner can edit the question")

	rec := ts.do(t, http.MethodPut, "/question/edit/q-1", "Bearer tok-1", map[string]string{"content": "x"})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "ATHR-003" || !strings.Contains(body["message"], "owner can edit") {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAnswerEndpoints(t *testing.T) {
	ts := newTestServer()
	ts.answers.answer = &models.Answer{UUID: "a-1", Content: "Because."}
	ts.answers.list = []*models.Answer{{UUID: "a-1", Content: "Because."}}

	rec := ts.do(t, http.MethodPost, "/question/q-1/answer/create", "Bearer tok-1", map[string]string{"content": "Because."})
	if rec.Code != http.StatusCreated || ts.answers.gotQuestionUUID != "q-1" {
		t.Fatalf("create status = %d, question = %q", rec.Code, ts.answers.gotQuestionUUID)
	}
	if body := decodeBody(t, rec); body["status"] != "ANSWER CREATED" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = ts.do(t, http.MethodPut, "/answer/edit/a-1", "Bearer tok-1", map[string]string{"content": "v2"})
	if rec.Code != http.StatusOK || ts.answers.gotAnswerUUID != "a-1" {
		t.Fatalf("edit status = %d, answer = %q", rec.Code, ts.answers.gotAnswerUUID)
	}

	rec = ts.do(t, http.MethodDelete, "/answer/delete/a-1", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/answer/all/q-1", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list []answerResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a-1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAnswerCreate_InvalidQuestion(t *testing.T) {
	ts := newTestServer()
	ts.answers.err = apperr.ErrQuestionNotFound.WithDescription("The question entered is invalid")

	rec := ts.do(t, http.MethodPost, "/question/ghost/answer/create", "Bearer tok-1", map[string]string{"content": "x"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "QUES-001" || body["message"] != "The question entered is invalid" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAttachmentEndpoints(t *testing.T) {
	ts := newTestServer()
	ts.attachments.key = "attachments/u-1/2026/8/29/x"
	ts.attachments.url = "https://s3.test/signed"

	rec := ts.do(t, http.MethodPost, "/attachment/upload-url", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["key"] == "" || body["url"] != "https://s3.test/signed" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = ts.do(t, http.MethodGet, "/attachment/download-url?key=attachments/u-1/2026/8/29/x", "Bearer tok-1", nil)
	if rec.Code != http.StatusOK || ts.attachments.gotKey != "attachments/u-1/2026/8/29/x" {
		t.Fatalf("download status = %d, key = %q", rec.Code, ts.attachments.gotKey)
	}

	rec = ts.do(t, http.MethodGet, "/attachment/download-url", "Bearer tok-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing key status = %d, want 400", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer()
	ts.questions.list = []*models.Question{}

	rec := ts.do(t, http.MethodGet, "/question/all", "Bearer tok-1", nil)

	id := rec.Header().Get("X-Request-ID")
	if !strings.HasPrefix(id, "req_") || len(id) != len("req_")+8 {
		t.Fatalf("X-Request-ID = %q", id)
	}
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/question/create", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
