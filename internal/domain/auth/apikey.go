package auth

import "context"

// APIKeyInfo holds the identity data for a validated API key. UserID scopes
// the cart and order operations performed with the key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	UserID  string
	Name    string
	Scopes  []string
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
