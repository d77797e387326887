package httpapi

import (
	"net/http"
	"strings"

	"github.com/ddanilovs/inform/internal/server/auth"
)

// sessionHandler is a handler that additionally receives the verified
// session of the caller.
type sessionHandler func(w http.ResponseWriter, r *http.Request, session *auth.Session)

// withSession verifies the bearer token before invoking the handler. Missing,
// malformed, tampered, and expired tokens all collapse to one 401. The token
// class is not checked here; the policy engine rejects restricted sessions
// per action.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		session, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next(w, r, session)
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
