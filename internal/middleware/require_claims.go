package middleware

import (
	"net/http"
	"strings"
)

// RequireClaims corta con 401 si el request no trae claims.
// Las rutas de datos lo montan por grupo, las de auth no.
func RequireClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
