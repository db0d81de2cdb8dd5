package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"distr/core/auth"
	"distr/model"
	"distr/repository"
)

func setupAuthServer(t *testing.T) (*Server, *model.User, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	users := repository.NewGormUserRepository(db)
	user := &model.User{Login: "reviewer", PasswordHash: "x", Type: model.UserTypeModerator}
	require.NoError(t, users.Create(context.Background(), user))

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(user.ID, user.Login, string(user.Type))
	require.NoError(t, err)

	return &Server{issuer: issuer, users: users}, user, token
}

func TestAuthRequiredBearerHeader(t *testing.T) {
	srv, user, token := setupAuthServer(t)

	var seen *model.User
	handler := srv.authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = currentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

// WebSocket handshakes from browsers cannot carry an Authorization header,
// so the token is accepted as a query parameter.
func TestAuthRequiredTokenQueryParam(t *testing.T) {
	srv, user, token := setupAuthServer(t)

	var seen *model.User
	handler := srv.authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = currentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/moderation/events?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

func TestAuthRequiredRejectsMissingAndBadTokens(t *testing.T) {
	srv, _, _ := setupAuthServer(t)

	handler := srv.authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a valid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/moderation/events?token=not-a-jwt", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
