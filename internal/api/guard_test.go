package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/userhub-be/internal/auth"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers map[int64]models.User

func (m memUsers) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := m[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func setupGuard(t *testing.T) (*Guard, *auth.TokenManager) {
	t.Helper()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	users := memUsers{
		1: {ID: 1, Username: "root", IsSuperuser: true, IsActive: true},
		2: {ID: 2, Username: "bob", IsActive: true},
	}
	return NewGuard(auth.NewAuthenticator(tm, users)), tm
}

func TestGuard(t *testing.T) {
	g, tm := setupGuard(t)
	adminToken, err := tm.Issue(1)
	require.NoError(t, err)
	userToken, err := tm.Issue(2)
	require.NoError(t, err)

	var seen models.User
	ok := func(w http.ResponseWriter, r *http.Request, user models.User) {
		seen = user
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name   string
		h      http.HandlerFunc
		header string
		want   int
		msg    string
	}{
		{"missing header", g.Authenticated(ok), "", http.StatusUnauthorized, "Not authenticated"},
		{"wrong scheme", g.Authenticated(ok), "Basic abc", http.StatusUnauthorized, "Not authenticated"},
		{"invalid token", g.Authenticated(ok), "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"user ok", g.Authenticated(ok), "Bearer " + userToken, http.StatusNoContent, ""},
		{"lowercase scheme", g.Authenticated(ok), "bearer " + userToken, http.StatusNoContent, ""},
		{"admin route non-admin", g.Admin(ok), "Bearer " + userToken, http.StatusForbidden, "Admin privileges required"},
		{"admin route admin", g.Admin(ok), "Bearer " + adminToken, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.h(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.msg == "" {
				return
			}
			var body struct {
				Message string `json:"message"`
				Data    any    `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Message)
			assert.Nil(t, body.Data)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
	assert.Equal(t, int64(1), seen.ID)
}
