package accounts

import (
	"errors"
	"net/http"
	"time"

	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))

		// cerrar la sesión exige estar autenticado
		ar.With(middleware.RequireClaims).Post("/logout", logoutHandler(svc))
	})

	r.Group(func(mr chi.Router) {
		mr.Use(middleware.RequireClaims)
		mr.Get("/me", meHandler(svc))
		mr.Patch("/me", updateMeHandler(svc))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string          `json:"token,omitempty"`
	User  AccountResponse `json:"user"`
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Description Crea la cuenta, inicia la sesión y devuelve un token bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Nombre, email y password"
// @Success 201 {object} AuthResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 409 {string} string "account already exists"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toAuthResponse(res))
	}
}

// loginHandler godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} AuthResponse
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toAuthResponse(res))
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Router /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		acc, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(acc))
	}
}

// updateMeHandler godoc
// @Summary Actualizar perfil
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body updateMeRequest true "Campos a cambiar"
// @Success 200 {object} AccountResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "account already exists"
// @Router /me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateMeRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		acc, err := svc.UpdateAccount(r.Context(), claims.UserID, Patch{Name: req.Name, Email: req.Email})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(acc))
	}
}

func toResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

func toAuthResponse(res AuthResult) AuthResponse {
	return AuthResponse{Token: res.Token, User: toResponse(res.Account)}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyExists):
		http.Error(w, "account already exists", http.StatusConflict)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrNoSession):
		http.Error(w, "no active session", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
