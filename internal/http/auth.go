package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authgate/authgate/internal/service"
	"github.com/authgate/authgate/pkg/httpx"
	"github.com/authgate/authgate/pkg/slogx"
)

// AuthHandler exposes the registration and login endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister creates a new user account and returns the identity along
// with a fresh session token.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.AuthService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrDuplicateEmail):
			httpx.NewDuplicateEmailError(req.Email).WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, AuthResponse{
		User:      toUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.AuthService.Signer.TTL().Seconds()),
	})
}

// HandleLogin authenticates email/password credentials and returns a session
// token. Unknown email and wrong password produce the same 401.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		User:      toUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.AuthService.Signer.TTL().Seconds()),
	})
}
