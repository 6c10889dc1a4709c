package admin

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// requireBearerForReload guards only opt=reload requests with an HS256
// bearer token, so anyone who can reach the admin port cannot point the
// process at an arbitrary index file; opt=get passes through untouched.
func (s *Server) requireBearerForReload(next http.Handler) http.Handler {
	secret := []byte(s.cfg.Extra.JWT.Secret)
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("opt") != "reload" {
			next.ServeHTTP(rw, r)
			return
		}
		tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			http.Error(rw, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			http.Error(rw, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(rw, r)
	})
}
