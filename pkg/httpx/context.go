package httpx

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated user's ID after the guard passes.
	CtxKeyUserID ctxKey = "user_id"

	// CtxKeyIdentity holds the resolved domain user record.
	CtxKeyIdentity ctxKey = "identity"
)
