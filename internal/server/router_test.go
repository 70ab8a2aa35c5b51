package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantry/internal/config"
	"pantry/internal/database"
	jwtsvc "pantry/internal/pkg/jwt"
	"pantry/internal/pkg/mailer"
	"pantry/internal/pkg/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:server_test_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		AppURL:        "http://localhost:5173",
		ResetTokenTTL: time.Hour,
		AuthRateLimit: 100,
		AuthRateBurst: 100,
		Storage:       config.StorageConfig{Driver: "local", UploadsURL: "/static/uploads"},
	}

	return NewRouter(Deps{
		Config:  cfg,
		DB:      db,
		JWT:     jwtsvc.New("test-secret", time.Hour),
		Mailer:  mailer.NewConsoleMailer(),
		Storage: storage.NewLocalStorage(t.TempDir(), "/static/uploads"),
	})
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
	}
	return rr, env
}

func TestRouter_Health(t *testing.T) {
	r := setupRouter(t)
	rr, _ := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := setupRouter(t)
	for _, path := range []string{"/api/v1/recipes", "/api/v1/products", "/api/v1/inventory", "/api/v1/shopping-list", "/api/v1/users/me"} {
		rr, env := call(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.False(t, env.Success, path)
	}
}

func TestRouter_RegisterThenWriteRecipe(t *testing.T) {
	r := setupRouter(t)

	rr, env := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "cook@example.com", "password": "password123", "name": "Cook",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var auth struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.AccessToken)

	rr, env = call(t, r, http.MethodPost, "/api/v1/units", auth.AccessToken, map[string]string{"name": "gram", "abbreviation": "g"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var unit struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &unit))

	rr, env = call(t, r, http.MethodPost, "/api/v1/recipes", auth.AccessToken, map[string]any{
		"title":      "Crème Brûlée",
		"courseName": "Dessert",
		"tags":       []string{"french", "french", "custard"},
		"ingredients": []map[string]any{
			{"type": "heading", "heading": "Custard"},
			{"type": "item", "amount": 500, "unitId": unit.ID, "name": "cream"},
		},
		"steps": []any{"Heat cream", 2, nil},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		ID          int64  `json:"id"`
		Slug        string `json:"slug"`
		Ingredients []struct {
			RawText string `json:"rawText"`
		} `json:"ingredients"`
		Steps []struct {
			Body string `json:"body"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "creme-brulee", created.Slug)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, "500 g cream", created.Ingredients[1].RawText)
	require.Len(t, created.Steps, 3)
	assert.Equal(t, "2", created.Steps[1].Body)

	rr, env = call(t, r, http.MethodGet, "/api/v1/recipes/slug/creme-brulee", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, env.Success)

	rr, env = call(t, r, http.MethodGet, "/api/v1/recipes/taxonomy", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tax struct {
		Courses []struct{ Name string } `json:"courses"`
		Tags    []struct{ Name string } `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tax))
	assert.Len(t, tax.Courses, 1)
	assert.Len(t, tax.Tags, 2)

	rr, _ = call(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", created.ID), auth.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr, env = call(t, r, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", created.ID), auth.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
