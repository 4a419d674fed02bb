package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/authgate/authgate/internal/domain"
	"github.com/authgate/authgate/internal/service"
	"github.com/authgate/authgate/pkg/httpx"
	"github.com/authgate/authgate/pkg/jwtx"
	"github.com/authgate/authgate/pkg/slogx"
)

// Guard rejection reasons. They exist for logging only: the HTTP response is
// the same undifferentiated 401 for every one of them, so a caller cannot
// learn which step of verification failed.
var (
	ErrNoToken    = errors.New("guard: missing bearer token")
	ErrUnverified = errors.New("guard: unable to verify token")
)

// Guard authenticates protected requests: extract the bearer token, verify
// it, resolve the subject in the user directory, and hand back the identity.
type Guard struct {
	Verifier *jwtx.HS256Verifier
	Auth     *service.AuthService
}

// Evaluate extracts, verifies, and resolves the bearer token on a request.
// A token whose subject no longer exists in the directory does not
// authenticate.
func (g *Guard) Evaluate(r *http.Request) (domain.User, error) {
	log := slogx.FromContext(r.Context())

	raw, ok := httpx.BearerToken(r)
	if !ok {
		return domain.User{}, ErrNoToken
	}

	claims, err := g.Verifier.Verify(raw)
	if err != nil {
		log.Warn("token verification failed", "err", err)
		return domain.User{}, ErrUnverified
	}

	user, err := g.Auth.FindByID(r.Context(), claims.Subject)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error("identity resolution failed", "err", err)
		}
		return domain.User{}, ErrUnverified
	}

	return user, nil
}

// Middleware wraps a handler so it only runs for authenticated requests,
// with the resolved identity attached to the request context.
func (g *Guard) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Evaluate(r)
			if err != nil {
				httpx.WriteBearerError(w)
				return
			}

			ctx := contextWithIdentity(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, u domain.User) context.Context {
	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, u.ID)
	ctx = context.WithValue(ctx, httpx.CtxKeyIdentity, u)
	return ctx
}

// identityFromContext returns the identity the guard attached, if any.
func identityFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(httpx.CtxKeyIdentity).(domain.User)
	return u, ok
}
