package service

import (
	"context"
	"testing"
	"time"

	"github.com/authgate/authgate/internal/store/drivers/sqlite"
	"github.com/authgate/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "auth-service-test-secret-32-bytes!!"
	testIssuer = "authgate-test"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256Signer(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)

	return NewAuthService(st, signer, 2)
}

func verifyToken(t *testing.T, token string) *jwtx.Claims {
	t.Helper()

	verifier, err := jwtx.NewHS256Verifier(testSecret, testIssuer)
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	return claims
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, token, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	require.NotEmpty(t, user.ID)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, "Alice", user.Name)
	require.Empty(t, user.PasswordHash, "identity must not carry the password hash")

	claims := verifyToken(t, token)
	require.Equal(t, user.ID, claims.Subject)
}

func TestRegister_EmptyFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, _, err := svc.Register(ctx, "", "secret1", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Register(ctx, "a@x.com", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, _, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@x.com", "other-password", "Impostor")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// The original registration still works.
	got, _, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	registered, regToken, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)

	claims := verifyToken(t, token)
	require.Equal(t, user.ID, claims.Subject)

	// Both tokens are valid; they just carry different jtis.
	verifyToken(t, regToken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, _, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)

	_, _, unknownEmail := svc.Login(ctx, "ghost@x.com", "secret1")
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)

	// Identical error kind for both failure modes.
	require.Equal(t, wrongPassword, unknownEmail)
}

func TestFindByEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	registered, _, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	user, err := svc.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)

	_, err = svc.FindByEmail(ctx, "ghost@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	registered, _, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	user, err := svc.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)

	_, err = svc.FindByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, _, err := svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "a@x.com"))

	// Exactly once: the second removal finds nothing.
	require.ErrorIs(t, svc.Remove(ctx, "a@x.com"), ErrNotFound)
	require.ErrorIs(t, svc.Remove(ctx, "ghost@x.com"), ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	_, _, err = svc.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "b@x.com", "secret2", "Bob")
	require.NoError(t, err)

	users, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Empty(t, u.PasswordHash, "list must not leak hashes")
	}
}

func TestRegister_ConcurrentHashing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// More registrations than hash slots; the semaphore serializes the
	// overflow instead of rejecting it.
	const n = 6
	errs := make(chan error, n)
	for i := range n {
		go func(i int) {
			email := string(rune('a'+i)) + "@x.com"
			_, _, err := svc.Register(ctx, email, "secret1", "")
			errs <- err
		}(i)
	}

	for range n {
		require.NoError(t, <-errs)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, n)
}
