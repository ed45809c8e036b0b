//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/app"
	"go-conference-manager/internal/config"
	"go-conference-manager/internal/database"
	"go-conference-manager/internal/model"
	"go-conference-manager/internal/repository"
	"go-conference-manager/internal/security"
	"go-conference-manager/internal/service"
)

const (
	rootEmail    = "root@example.com"
	rootPassword = "root-password"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// the tables the tests write to.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, database.Options{URL: url, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE audit_entries, users, institutions RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func newServer(t *testing.T, db *database.DB) *httptest.Server {
	t.Helper()

	users := repository.NewUserRepository(db.Pool)
	require.NoError(t, service.EnsureFirstSuperuser(context.Background(), users, security.NewPasswordHasher(4),
		service.FirstSuperuser{Email: rootEmail, Password: rootPassword}))

	cfg := &config.Config{
		RequestTimeout:   10 * time.Second,
		DBQueryTimeout:   5 * time.Second,
		JWTSecret:        "integration-secret",
		AccessTokenTTL:   time.Hour,
		BcryptCost:       4,
		OpenRegistration: true,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	h, err := app.NewHandler(cfg, app.Stores{
		Users:        users,
		Institutions: repository.NewInstitutionRepository(db.Pool),
		Audit:        repository.NewAuditRepository(db.Pool),
		Health:       db.Health,
	})
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
}

func doJSON(t *testing.T, method string, url string, token string, body any) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func login(t *testing.T, baseURL string, email string, password string) model.Session {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, baseURL+"/api/v1/auth/token", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	var session model.Session
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session
}
