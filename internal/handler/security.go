package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/auth"
)

// identityKey is the context key for the authenticated API key info.
type identityKey struct{}

// UserFromContext returns the user id of the authenticated API key, or ""
// when the request is unauthenticated.
func UserFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(identityKey{}).(*auth.APIKeyInfo); ok {
		return info.UserID
	}
	return ""
}

// Authenticator authenticates API requests via HMAC-SHA256 hashed API keys
// carried in the X-API-Key header.
type Authenticator struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewAuthenticator creates an Authenticator with the given API key
// repository and HMAC pepper.
func NewAuthenticator(apikeys auth.Repository, pepper []byte) *Authenticator {
	return &Authenticator{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Middleware rejects requests whose API key does not resolve to an active
// identity, and stores the identity in the request context otherwise.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "missing API key")
			return
		}

		info, ok := a.authenticate(r.Context(), key)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate computes the HMAC-SHA256 of the provided key, looks it up,
// and performs a constant-time comparison to prevent timing attacks.
func (a *Authenticator) authenticate(ctx context.Context, key string) (*auth.APIKeyInfo, bool) {
	mac := hmac.New(sha256.New, a.pepper)
	mac.Write([]byte(key))
	hash := mac.Sum(nil)

	info, err := a.apikeys.FindByHash(ctx, hex.EncodeToString(hash))
	if err != nil {
		return nil, false
	}

	stored, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return nil, false
	}
	if subtle.ConstantTimeCompare(hash, stored) != 1 {
		return nil, false
	}

	return info, true
}
