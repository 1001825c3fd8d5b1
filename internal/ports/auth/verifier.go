package auth

import "context"

// AuthVerifier valida un bearer token. Un token vencido o con firma inválida
// devuelve error; el middleware sigue sin claims y RequireClaims responde 401.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Issuer firma claims en un token bearer.
type Issuer interface {
	Issue(c Claims) (string, error)
}
