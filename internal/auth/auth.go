// Package auth provides the pluggable credential-checking seam the
// protocol handler calls on every gated route.
package auth

import "context"

// Credentials is a decoded HTTP Basic auth pair.
type Credentials struct {
	Username string
	Password string
}

// Provider decides whether a set of credentials grants access. It has no
// notion of scopes or per-repository permission; SPEC_FULL.md's Non-goals
// explicitly exclude a credential policy beyond this pass/fail gate.
type Provider interface {
	CheckCredentials(ctx context.Context, creds Credentials) bool
}
