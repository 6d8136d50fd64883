package identity

import "context"

// User is the authenticated caller a session belongs to. Consumed read-only
// when building session metadata; this service never authenticates users
// itself beyond verifying the token it was handed.
type User struct {
	ID    string
	Email string
}

type Provider interface {
	ResolveUser(ctx context.Context, token string) (User, error)
}
