package auth

import (
	"context"
	"crypto/subtle"
)

// StaticUser is one entry in a configured credential list.
type StaticUser struct {
	Username string
	Password string
}

// StaticUserList checks credentials against a fixed, config-loaded list.
// Comparisons are constant-time per field to avoid leaking match length
// through timing.
type StaticUserList struct {
	users []StaticUser
}

// NewStaticUserList builds a Provider from a configured user list.
func NewStaticUserList(users []StaticUser) *StaticUserList {
	return &StaticUserList{users: users}
}

func (p *StaticUserList) CheckCredentials(ctx context.Context, creds Credentials) bool {
	for _, u := range p.users {
		userMatch := subtle.ConstantTimeCompare([]byte(u.Username), []byte(creds.Username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(u.Password), []byte(creds.Password)) == 1
		if userMatch && passMatch {
			return true
		}
	}
	return false
}
