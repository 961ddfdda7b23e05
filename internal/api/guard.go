package api

import (
	"net/http"
	"strings"

	"github.com/isdelr/userhub-be/internal/api/respond"
	"github.com/isdelr/userhub-be/internal/auth"
	"github.com/isdelr/userhub-be/internal/common"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserHandlerFunc is an HTTP handler that receives the resolved caller.
type UserHandlerFunc func(w http.ResponseWriter, r *http.Request, user models.User)

// Guard adapts UserHandlerFuncs into plain handlers by resolving the bearer
// token first.
type Guard struct {
	auth *auth.Authenticator
}

// NewGuard creates a Guard backed by the given Authenticator.
func NewGuard(a *auth.Authenticator) *Guard {
	return &Guard{auth: a}
}

// Authenticated runs next with the caller resolved from the Authorization header.
func (g *Guard) Authenticated(next UserHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respond.Err(w, common.NewError(common.ErrUnauthenticated, "Not authenticated"))
			return
		}
		user, err := g.auth.Authenticate(r.Context(), token)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
			respond.Err(w, err)
			return
		}
		next(w, r, user)
	}
}

// Admin runs next only for authenticated callers with the admin flag.
func (g *Guard) Admin(next UserHandlerFunc) http.HandlerFunc {
	return g.Authenticated(func(w http.ResponseWriter, r *http.Request, user models.User) {
		admin, err := auth.RequireAdmin(user)
		if err != nil {
			log.Warn().Int64("user_id", user.ID).Str("path", r.URL.Path).Msg("Non-admin hit admin route")
			respond.Err(w, err)
			return
		}
		next(w, r, admin)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
