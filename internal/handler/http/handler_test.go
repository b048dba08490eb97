package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	evaluationDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	sessionDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	sidebarDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/sidebar"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	signedIn  bool
	signInErr error
	info      sessionDomain.Info
}

func (f *fakeSessions) SignIn(_ context.Context, email, _ string) (*sessionDomain.Info, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.signedIn = true
	f.info = sessionDomain.Info{EmployeeID: "emp-1", Email: email}
	return &f.info, nil
}

func (f *fakeSessions) SignOut()       { f.signedIn = false }
func (f *fakeSessions) SignedIn() bool { return f.signedIn }

func (f *fakeSessions) Current() (*sessionDomain.Info, bool) {
	if !f.signedIn {
		return nil, false
	}
	return &f.info, true
}

type fakeEvaluations struct {
	result    *evaluationDomain.LoadResult
	loadErr   error
	getErr    error
	submitErr error
	deleted   []string
}

func (f *fakeEvaluations) LoadEvaluations(context.Context) (*evaluationDomain.LoadResult, error) {
	return f.result, f.loadErr
}

func (f *fakeEvaluations) GetEvaluation(_ context.Context, id string) (*evaluationDomain.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &evaluationDomain.Record{ID: id, Status: evaluationDomain.StatusPending}, nil
}

func (f *fakeEvaluations) SubmitResponse(_ context.Context, id string, sub evaluationDomain.Submission) (*evaluationDomain.SubmitResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &evaluationDomain.SubmitResult{Message: "Evaluation submitted"}, nil
}

func (f *fakeEvaluations) DeleteEvaluation(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSidebar struct {
	snapshot  sidebarDomain.Snapshot
	refreshed int
	resets    int
}

func (f *fakeSidebar) Start() {}
func (f *fakeSidebar) Stop()  {}

func (f *fakeSidebar) Snapshot() sidebarDomain.Snapshot { return f.snapshot }
func (f *fakeSidebar) Refresh(context.Context)          { f.refreshed++ }
func (f *fakeSidebar) Reset()                           { f.resets++ }

func newTestRouter(sessions *fakeSessions, evals *fakeEvaluations, sb *fakeSidebar) http.Handler {
	return NewRouter(
		sessions,
		NewAuthHandler(sessions, sb),
		NewEvaluationHandler(evals),
		NewSidebarHandler(sb),
		NewStreamHandler(bus.New()),
		"http://localhost:3000",
		"test",
	)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestRouter_LoginSuccess(t *testing.T) {
	sessions := &fakeSessions{}
	handler := newTestRouter(sessions, &fakeEvaluations{}, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login",
		`{"email":"staff@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.True(t, sessions.signedIn)
}

func TestRouter_LoginRefreshesSidebar(t *testing.T) {
	sessions := &fakeSessions{}
	sb := &fakeSidebar{}
	handler := newTestRouter(sessions, &fakeEvaluations{}, sb)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login",
		`{"email":"staff@example.com","password":"pw"}`)

	// The badge consumer must not stay uninitialized until the periodic
	// refresh fires
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sb.refreshed)
}

func TestRouter_FailedLoginDoesNotRefreshSidebar(t *testing.T) {
	sessions := &fakeSessions{signInErr: sessionDomain.ErrInvalidCredentials}
	sb := &fakeSidebar{}
	handler := newTestRouter(sessions, &fakeEvaluations{}, sb)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login",
		`{"email":"staff@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, sb.refreshed)
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	sessions := &fakeSessions{signInErr: sessionDomain.ErrInvalidCredentials}
	handler := newTestRouter(sessions, &fakeEvaluations{}, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login",
		`{"email":"staff@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestRouter_LoginRequiresCredentials(t *testing.T) {
	handler := newTestRouter(&fakeSessions{}, &fakeEvaluations{}, &fakeSidebar{})

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EvaluationsRequireSession(t *testing.T) {
	handler := newTestRouter(&fakeSessions{}, &fakeEvaluations{}, &fakeSidebar{})

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListEvaluations(t *testing.T) {
	evals := &fakeEvaluations{result: &evaluationDomain.LoadResult{
		Pending: []evaluationDomain.Record{{ID: "e1", Status: evaluationDomain.StatusPending}},
		Stats:   evaluationDomain.Stats{ReviewsDue: 1, InProgress: 1},
		Total:   1,
	}}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestRouter_LoadFailureIsDistinguishable(t *testing.T) {
	evals := &fakeEvaluations{loadErr: evaluationDomain.ErrUnavailable}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "SERVICE_UNAVAILABLE", errDetail["code"])
}

func TestRouter_PermissionDeniedHasItsOwnMessage(t *testing.T) {
	evals := &fakeEvaluations{loadErr: evaluationDomain.ErrPermissionDenied}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	errDetail := body["error"].(map[string]interface{})
	assert.Contains(t, errDetail["message"], "administrator")
}

func TestRouter_GetEvaluation(t *testing.T) {
	handler := newTestRouter(&fakeSessions{signedIn: true}, &fakeEvaluations{}, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/e1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "e1", data["id"])
}

func TestRouter_GetEvaluationNotFound(t *testing.T) {
	evals := &fakeEvaluations{getErr: evaluationDomain.ErrEvaluationNotFound}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/evaluations/e1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SubmitEvaluation(t *testing.T) {
	handler := newTestRouter(&fakeSessions{signedIn: true}, &fakeEvaluations{}, &fakeSidebar{})

	rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/evaluations/e1/submit",
		`{"responses":[{"question_id":"1","value":"4"}],"comments":"ok"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Evaluation submitted", body["message"])
}

func TestRouter_SubmitInvalidPayload(t *testing.T) {
	evals := &fakeEvaluations{submitErr: evaluationDomain.ErrInvalidSubmission}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/evaluations/e1/submit", `{"responses":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_DeleteEvaluation(t *testing.T) {
	evals := &fakeEvaluations{}
	handler := newTestRouter(&fakeSessions{signedIn: true}, evals, &fakeSidebar{})

	rec, _ := doJSON(t, handler, http.MethodDelete, "/api/v1/evaluations/e1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"e1"}, evals.deleted)
}

func TestRouter_SidebarCountsAndRefresh(t *testing.T) {
	sb := &fakeSidebar{snapshot: sidebarDomain.Snapshot{
		State:  sidebarDomain.StateReady,
		Counts: sidebarDomain.Counts{Evaluations: 3},
	}}
	handler := newTestRouter(&fakeSessions{signedIn: true}, &fakeEvaluations{}, sb)

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/sidebar/counts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	counts := data["counts"].(map[string]interface{})
	assert.Equal(t, float64(3), counts["evaluations"])

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/sidebar/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sb.refreshed)
}

func TestRouter_LogoutResetsSidebar(t *testing.T) {
	sessions := &fakeSessions{signedIn: true}
	sb := &fakeSidebar{}
	handler := newTestRouter(sessions, &fakeEvaluations{}, sb)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/logout", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sessions.signedIn)
	assert.Equal(t, 1, sb.resets)
}
