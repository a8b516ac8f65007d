package httpserver

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hirewise/ai-job-matcher/internal/config"
)

// AdminAuth guards a route with HTTP basic auth against the configured
// admin username and bcrypt password hash. When no admin credentials
// are configured the route is left open; callers should only mount
// guarded routes when cfg.AdminEnabled().
func AdminAuth(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.AdminEnabled() {
				next.ServeHTTP(w, r)
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok || !credentialsValid(cfg, user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func credentialsValid(cfg config.Config, user, pass string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(cfg.AdminUsername)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(pass)) == nil
}
