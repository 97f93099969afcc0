package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/broadcast"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeClaims = jwt.Claims{
	TokenID:    "jti-1",
	AccountID:  "acc-1",
	EmployeeID: "emp-1",
	Email:      "rina@example.com",
	Role:       user.RoleEmployee,
	ExpiresAt:  1893456000,
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *response.Meta `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// serve mounts fn on pattern and sends req through it, authenticated as
// claims unless claims is nil.
func serve(method, pattern string, fn http.HandlerFunc, req *http.Request, claims *jwt.Claims) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, fn)
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), *claims))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type stubTaskService struct {
	task.TaskService
	gotActor user.Actor
	gotID    string
	gotReq   task.UpdateProgressRequest
}

func (s *stubTaskService) UpdateProgress(ctx context.Context, actor user.Actor, id string, req task.UpdateProgressRequest) (task.TaskResponse, error) {
	s.gotActor, s.gotID, s.gotReq = actor, id, req
	if id == "missing" {
		return task.TaskResponse{}, task.ErrTaskNotFound
	}
	return task.TaskResponse{ID: id, Status: task.StatusInProgress, Progress: *req.Progress}, nil
}

func TestTaskHandler_UpdateProgress(t *testing.T) {
	svc := &stubTaskService{}
	h := NewTaskHandler(svc)
	body := func(s string) *http.Request {
		return httptest.NewRequest(http.MethodPut, "/tasks/t-1/progress", strings.NewReader(s))
	}

	t.Run("passes caller and path id", func(t *testing.T) {
		rec := serve(http.MethodPut, "/tasks/{id}/progress", h.UpdateProgress, body(`{"progress":40,"message":"halfway"}`), &employeeClaims)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "t-1", svc.gotID)
		assert.Equal(t, "emp-1", svc.gotActor.EmployeeID)
		assert.Equal(t, "acc-1", svc.gotActor.AccountID)
		require.NotNil(t, svc.gotReq.Message)
		assert.Equal(t, "halfway", *svc.gotReq.Message)

		var got task.TaskResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		assert.Equal(t, 40, got.Progress)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := serve(http.MethodPut, "/tasks/{id}/progress", h.UpdateProgress, body(`{"progress":40}`), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(http.MethodPut, "/tasks/{id}/progress", h.UpdateProgress, body(`{"progress":`), &employeeClaims)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("progress out of range", func(t *testing.T) {
		rec := serve(http.MethodPut, "/tasks/{id}/progress", h.UpdateProgress, body(`{"progress":150}`), &employeeClaims)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Error.Details, "progress")
	})

	t.Run("service error is mapped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/tasks/missing/progress", strings.NewReader(`{"progress":10}`))
		rec := serve(http.MethodPut, "/tasks/{id}/progress", h.UpdateProgress, req, &employeeClaims)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type stubLeaveService struct {
	leave.LeaveService
	gotReq   leave.SubmitRequest
	contents []string
}

func (s *stubLeaveService) Submit(ctx context.Context, actor user.Actor, req leave.SubmitRequest) (leave.LeaveResponse, error) {
	s.gotReq = req
	for _, a := range req.Attachments {
		b, err := io.ReadAll(a.File)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		s.contents = append(s.contents, string(b))
	}
	return leave.LeaveResponse{ID: "leave-1", EmployeeID: actor.EmployeeID, Type: req.Type}, nil
}

func TestLeaveHandler_SubmitMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", `{"type":"sick","start_date":"2030-01-06","end_date":"2030-01-08","reason":"flu"}`))
	for name, content := range map[string]string{"note.pdf": "%PDF-1.4 a", "scan.pdf": "%PDF-1.4 b"} {
		part, err := mw.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/leaves", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	svc := &stubLeaveService{}
	rec := serve(http.MethodPost, "/leaves", NewLeaveHandler(svc).Submit, req, &employeeClaims)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, leave.TypeSick, svc.gotReq.Type)
	assert.Equal(t, "2030-01-06", svc.gotReq.StartDate)
	require.Len(t, svc.gotReq.Attachments, 2)
	assert.ElementsMatch(t, []string{"%PDF-1.4 a", "%PDF-1.4 b"}, svc.contents)
}

func TestLeaveHandler_SubmitMultipartRequiresData(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("reason", "flu"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/leaves", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(http.MethodPost, "/leaves", NewLeaveHandler(&stubLeaveService{}).Submit, req, &employeeClaims)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubBroadcastService struct {
	broadcast.BroadcastService
	unreadOnly bool
	page       common.Pagination
}

func (s *stubBroadcastService) ListMine(ctx context.Context, actor user.Actor, unreadOnly bool, page common.Pagination) ([]broadcast.ReceivedResponse, common.PageInfo, error) {
	s.unreadOnly, s.page = unreadOnly, page
	return []broadcast.ReceivedResponse{{IsRead: false}}, common.NewPageInfo(page, 11), nil
}

func TestBroadcastHandler_ListMineQuery(t *testing.T) {
	svc := &stubBroadcastService{}
	req := httptest.NewRequest(http.MethodGet, "/broadcasts/my?unread_only=true&page=2&limit=5", nil)

	rec := serve(http.MethodGet, "/broadcasts/my", NewBroadcastHandler(svc).ListMine, req, &employeeClaims)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.unreadOnly)
	assert.Equal(t, common.Pagination{Page: 2, Limit: 5}, svc.page)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.TotalItems)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

type stubNotificationService struct {
	notification.Service
	events chan notification.SSEEvent
	gotID  string
}

func (s *stubNotificationService) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	s.gotID = recipientID
	return s.events, func() {}
}

func TestNotificationHandler_Stream(t *testing.T) {
	jwtService, err := jwt.NewJWTService("handler-test-secret", "1h")
	require.NoError(t, err)

	svc := &stubNotificationService{events: make(chan notification.SSEEvent, 1)}
	h := NewNotificationHandler(svc, jwtService)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Stream(rec, httptest.NewRequest(http.MethodGet, "/notifications/stream", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		access, _, err := jwtService.GenerateAccessToken("acc-1", "emp-1", "rina@example.com", user.RoleEmployee)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		h.Stream(rec, httptest.NewRequest(http.MethodGet, "/notifications/stream?token="+url.QueryEscape(access), nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("streams events until the channel closes", func(t *testing.T) {
		token, _, err := jwtService.GenerateSSEToken("emp-1")
		require.NoError(t, err)

		svc.events <- notification.SSEEvent{Event: "notification", Data: map[string]string{"title": "Task assigned"}}
		close(svc.events)

		rec := httptest.NewRecorder()
		h.Stream(rec, httptest.NewRequest(http.MethodGet, "/notifications/stream?token="+url.QueryEscape(token), nil))

		assert.Equal(t, "emp-1", svc.gotID)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, "event: connected\n")
		assert.Contains(t, body, "event: notification\ndata: {\"title\":\"Task assigned\"}\n\n")
	})
}

type stubAuthService struct {
	auth.AuthService
	tokenID   string
	expiresAt int64
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt int64) error {
	s.tokenID, s.expiresAt = tokenID, expiresAt
	return nil
}

func TestAuthHandler_LogoutRevokesCurrentToken(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, nil, "http://localhost:3000")

	rec := serve(http.MethodPost, "/auth/logout", h.Logout, httptest.NewRequest(http.MethodPost, "/auth/logout", nil), &employeeClaims)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jti-1", svc.tokenID)
	assert.Equal(t, int64(1893456000), svc.expiresAt)
}

func TestAuthHandler_GoogleDisabled(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil, "http://localhost:3000")

	rec := httptest.NewRecorder()
	h.LoginWithGoogle(rec, httptest.NewRequest(http.MethodGet, "/auth/login/google", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.OAuthCallbackGoogle(rec, httptest.NewRequest(http.MethodGet, "/auth/oauth/callback/google?code=x&state=y", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://localhost:3000/auth/callback/google?error=google_not_enabled", rec.Header().Get("Location"))
}
