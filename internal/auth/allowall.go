package auth

import "context"

// AllowAll accepts any credentials, including empty ones. It exists for
// local development against an unauthenticated registry; production
// wiring should use StaticUserList instead.
type AllowAll struct{}

func (AllowAll) CheckCredentials(ctx context.Context, creds Credentials) bool { return true }
