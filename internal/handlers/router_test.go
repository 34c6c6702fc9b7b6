package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/content"
	"kidsmoney/internal/database"
	"kidsmoney/internal/security"
	"kidsmoney/internal/service"
)

type apiFixture struct {
	t       *testing.T
	handler http.Handler
	startup *StartupStatus
}

func newAPIFixture(t *testing.T, loginLimit int) *apiFixture {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	catalog := content.MustLoad()
	svc := service.New(service.Deps{
		DB:      db,
		Tokens:  tokens,
		Catalog: catalog,
		Logger:  zerolog.Nop(),
	})

	limiter := security.NewRateLimiter(loginLimit, time.Minute)
	t.Cleanup(limiter.Stop)

	startup := NewStartupStatus(StepDatabase, StepServices)
	middleware := NewMiddleware(tokens, limiter, zerolog.Nop(), []string{"http://app.test"})
	return &apiFixture{
		t:       t,
		handler: NewRouter(svc, catalog, middleware, startup),
		startup: startup,
	}
}

// call sends a JSON request and decodes the JSON response into out when non-nil
func (f *apiFixture) call(method, path, token string, body interface{}, out interface{}) int {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (f *apiFixture) signup(email string) string {
	f.t.Helper()
	var res struct {
		Token string `json:"token"`
	}
	status := f.call(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"full_name": "Pat Parent", "email": email, "password": "password123",
	}, &res)
	require.Equal(f.t, http.StatusOK, status)
	require.NotEmpty(f.t, res.Token)
	return res.Token
}

func (f *apiFixture) createKid(parentToken, name string, balance float64) string {
	f.t.Helper()
	var kid struct {
		ID string `json:"id"`
	}
	status := f.call(http.MethodPost, "/api/kids", parentToken, map[string]interface{}{
		"name": name, "age": 9, "pin": "4321", "starting_balance": balance,
	}, &kid)
	require.Equal(f.t, http.StatusOK, status)
	return kid.ID
}

func (f *apiFixture) kidLogin(email, name string) string {
	f.t.Helper()
	var res struct {
		Token string `json:"token"`
	}
	status := f.call(http.MethodPost, "/api/auth/kid-login", "", map[string]string{
		"parent_email": email, "kid_name": name, "pin": "4321",
	}, &res)
	require.Equal(f.t, http.StatusOK, status)
	return res.Token
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t, 10)

	var view startupView
	assert.Equal(t, http.StatusServiceUnavailable, f.call(http.MethodGet, "/healthz", "", nil, &view))
	assert.False(t, view.Ready)

	f.startup.CompleteStep(StepDatabase)
	f.call(http.MethodGet, "/healthz", "", nil, &view)
	assert.Equal(t, 50, view.Progress)

	f.startup.MarkReady()
	assert.Equal(t, http.StatusOK, f.call(http.MethodGet, "/healthz", "", nil, &view))
	assert.True(t, view.Ready)
}

func TestAuthFlow(t *testing.T) {
	f := newAPIFixture(t, 10)
	parentToken := f.signup("pat@example.com")

	var dup errorBody
	status := f.call(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"full_name": "Pat", "email": "pat@example.com", "password": "password123",
	}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeEmailTaken, dup.Code)

	var bad errorBody
	status = f.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "pat@example.com", "password": "wrong",
	}, &bad)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, CodeUnauthorized, bad.Code)

	var me map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/auth/me", parentToken, nil, &me))
	assert.Equal(t, "pat@example.com", me["email"])
	assert.Equal(t, "parent", me["role"])
	assert.NotContains(t, me, "password_hash")

	f.createKid(parentToken, "Asha", 0)
	kidToken := f.kidLogin("pat@example.com", "Asha")

	var kidMe map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/auth/me", kidToken, nil, &kidMe))
	assert.Equal(t, "kid", kidMe["role"])
	assert.Equal(t, "Asha", kidMe["name"])
	assert.NotContains(t, kidMe, "pin")

	var unavailable errorBody
	status = f.call(http.MethodPost, "/api/auth/oauth/google", "", map[string]string{"code": "abc"}, &unavailable)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthorization(t *testing.T) {
	f := newAPIFixture(t, 10)
	parentToken := f.signup("pat@example.com")
	kidID := f.createKid(parentToken, "Asha", 10)
	kidToken := f.kidLogin("pat@example.com", "Asha")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/kids", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/kids", "not-a-jwt", http.StatusUnauthorized},
		{"kid on parent route", http.MethodGet, "/api/kids", kidToken, http.StatusForbidden},
		{"kid on parent wallet", http.MethodGet, "/api/wallet/" + kidID, kidToken, http.StatusForbidden},
		{"parent on kid route", http.MethodGet, "/api/kid/wallet", parentToken, http.StatusForbidden},
		{"parent wallet", http.MethodGet, "/api/wallet/" + kidID, parentToken, http.StatusOK},
		{"kid wallet", http.MethodGet, "/api/kid/wallet", kidToken, http.StatusOK},
		{"unknown kid", http.MethodGet, "/api/wallet/nope", parentToken, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.call(tt.method, tt.path, tt.token, nil, nil))
		})
	}

	strangerToken := f.signup("sam@example.com")
	var body errorBody
	assert.Equal(t, http.StatusNotFound, f.call(http.MethodGet, "/api/kids/"+kidID, strangerToken, nil, &body))
	assert.Equal(t, "Kid not found", body.Detail)
}

func TestTaskWorkflowOverHTTP(t *testing.T) {
	f := newAPIFixture(t, 10)
	parentToken := f.signup("pat@example.com")
	kidID := f.createKid(parentToken, "Asha", 0)
	kidToken := f.kidLogin("pat@example.com", "Asha")

	var task map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/tasks", parentToken, map[string]interface{}{
		"kid_id": kidID, "title": "Dishes", "reward_amount": 20,
	}, &task))
	taskID := task["id"].(string)
	assert.Equal(t, "pending", task["status"])

	var tasks []map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/kid/tasks", kidToken, nil, &tasks))
	assert.Len(t, tasks, 1)

	require.Equal(t, http.StatusOK, f.call(http.MethodPut, "/api/kid/tasks/"+taskID+"/complete", kidToken, nil, &task))
	assert.Equal(t, "completed", task["status"])

	var stateErr errorBody
	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPut, "/api/tasks/"+taskID+"/complete", parentToken, nil, &stateErr))
	assert.Equal(t, CodeInvalidState, stateErr.Code)
	assert.Equal(t, "Task is not pending", stateErr.Detail)

	require.Equal(t, http.StatusOK, f.call(http.MethodPut, "/api/tasks/"+taskID+"/approve", parentToken, nil, &task))
	assert.Equal(t, "approved", task["status"])

	var wallet map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/kid/wallet", kidToken, nil, &wallet))
	assert.Equal(t, 20.0, wallet["balance"])

	var txns []map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/wallet/"+kidID+"/transactions?limit=5", parentToken, nil, &txns))
	require.Len(t, txns, 1)
	assert.Equal(t, "Task approved: Dishes", txns[0]["description"])

	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodGet, "/api/kid/transactions?limit=many", kidToken, nil, nil))
}

func TestSavingsErrorsOverHTTP(t *testing.T) {
	f := newAPIFixture(t, 10)
	parentToken := f.signup("pat@example.com")
	kidID := f.createKid(parentToken, "Asha", 10)
	kidToken := f.kidLogin("pat@example.com", "Asha")

	var goal map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/goals", parentToken, map[string]interface{}{
		"kid_id": kidID, "title": "Bike", "target_amount": 100,
	}, &goal))

	var body errorBody
	status := f.call(http.MethodPut, "/api/kid/goals/"+goal["id"].(string)+"/contribute", kidToken, map[string]float64{"amount": 50}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeInsufficientFunds, body.Code)

	status = f.call(http.MethodPost, "/api/sip", parentToken, map[string]interface{}{
		"kid_id": kidID, "amount": -5,
	}, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, "amount", body.Field)

	var loan map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/kid/loans/request", kidToken, map[string]interface{}{
		"amount": 60, "purpose": "Book",
	}, &loan))
	assert.Equal(t, kidID, loan["kid_id"])
	assert.Equal(t, "pending", loan["status"])

	assert.Equal(t, http.StatusForbidden, f.call(http.MethodPost, "/api/loans/"+loan["id"].(string)+"/approve", kidToken, nil, nil))
	assert.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/loans/"+loan["id"].(string)+"/approve", parentToken, nil, nil))

	var msg messageBody
	require.Equal(t, http.StatusOK, f.call(http.MethodDelete, "/api/goals/"+goal["id"].(string), parentToken, nil, &msg))
	assert.Equal(t, "Goal deleted and savings returned", msg.Message)

	req := httptest.NewRequest(http.MethodPost, "/api/goals", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+parentToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLearningAndDashboardOverHTTP(t *testing.T) {
	f := newAPIFixture(t, 10)
	parentToken := f.signup("pat@example.com")
	kidID := f.createKid(parentToken, "Asha", 0)
	kidToken := f.kidLogin("pat@example.com", "Asha")

	var stories []map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/kid/learning/stories", kidToken, nil, &stories))
	assert.Len(t, stories, 5)
	assert.Equal(t, http.StatusNotFound, f.call(http.MethodGet, "/api/learning/stories/story-99", parentToken, nil, nil))

	var out map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/kid/learning/complete", kidToken, map[string]interface{}{
		"story_id": "story-1", "answers": []int{0, 1, 1},
	}, &out))
	assert.Equal(t, "Lesson completed!", out["message"])
	assert.Equal(t, 25.0, out["xp_earned"])

	var dash map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/dashboard/kid/"+kidID, parentToken, nil, &dash))
	assert.Equal(t, 25.0, dash["kid"].(map[string]interface{})["xp"])

	var kidDash map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/kid/dashboard", kidToken, nil, &kidDash))
	assert.NotContains(t, kidDash["kid"].(map[string]interface{}), "pin")

	var achievements map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/kid/achievements", kidToken, nil, &achievements))
	assert.Len(t, achievements["badges"], 1)
}

func TestConfigRoutes(t *testing.T) {
	f := newAPIFixture(t, 10)

	var levels []map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/config/levels", "", nil, &levels))
	assert.Len(t, levels, 10)

	var avatars []map[string]interface{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/config/avatars", "", nil, &avatars))
	assert.Len(t, avatars, 8)
}

func TestLoginRateLimit(t *testing.T) {
	f := newAPIFixture(t, 2)
	creds := map[string]string{"email": "nobody@example.com", "password": "password123"}

	assert.Equal(t, http.StatusUnauthorized, f.call(http.MethodPost, "/api/auth/login", "", creds, nil))
	assert.Equal(t, http.StatusUnauthorized, f.call(http.MethodPost, "/api/auth/login", "", creds, nil))

	var body errorBody
	assert.Equal(t, http.StatusTooManyRequests, f.call(http.MethodPost, "/api/auth/login", "", creds, &body))
	assert.Equal(t, CodeRateLimited, body.Code)
}

func TestCORS(t *testing.T) {
	f := newAPIFixture(t, 10)

	req := httptest.NewRequest(http.MethodOptions, "/api/kids", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/config/levels", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
