package http

import (
	"errors"
	"net/http"

	"github.com/authgate/authgate/internal/service"
	"github.com/authgate/authgate/pkg/httpx"
	"github.com/authgate/authgate/pkg/slogx"
)

// UsersHandler exposes the guarded user-directory endpoints.
type UsersHandler struct {
	AuthService *service.AuthService
}

// HandleList returns every user in the directory.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.AuthService.List(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns the user with the email given in the path.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.PathValue("email")
	user, err := h.AuthService.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.ErrNotFound.WriteError(w)
			return
		}
		log.Error("failed to load user", "email", email, "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete removes the user with the email given in the path. Deleting
// the same email twice yields a 404 the second time.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.PathValue("email")
	if err := h.AuthService.Remove(ctx, email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.ErrNotFound.WriteError(w)
			return
		}
		log.Error("failed to delete user", "email", email, "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, DeleteResponse{Deleted: true, Email: email})
}

// HandleMe returns the identity the guard resolved for the calling token.
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
