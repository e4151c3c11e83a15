package api

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ocireg/registry/internal/auth"
	"github.com/ocireg/registry/internal/logx"
)

const authRealm = `Basic realm="ContainerRegistry"`

// requireAuth gates every route, including the base index, behind HTTP
// Basic auth checked against the configured Provider. It sets
// WWW-Authenticate before checking credentials, so an unauthenticated
// probe against the index still gets a normal 401 response rather than
// being blocked outright — that response, not a route-level exemption,
// is what the protocol's liveness/auth-probe semantics rely on.
func requireAuth(provider auth.Provider, log *logx.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderWWWAuthenticate, authRealm)

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("authentication required")
		}

		creds, ok := parseBasicAuth(header)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid authorization header")
		}

		if !provider.CheckCredentials(c.Context(), creds) {
			log.WithFunc().WithField("username", creds.Username).Warn("authentication failed")
			return c.Status(fiber.StatusUnauthorized).SendString("invalid username or password")
		}

		return c.Next()
	}
}

func parseBasicAuth(header string) (auth.Credentials, bool) {
	if !strings.HasPrefix(header, "Basic ") {
		return auth.Credentials{}, false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len("Basic "):])
	if err != nil {
		return auth.Credentials{}, false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return auth.Credentials{}, false
	}
	return auth.Credentials{Username: parts[0], Password: parts[1]}, true
}
