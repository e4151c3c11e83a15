package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ocireg/registry/internal/registry"
)

// writeError converts a registry.Error (or any other error) into an HTTP
// response at the handler boundary. This is the only place status codes
// are derived from Kind.
func writeError(c *fiber.Ctx, err error) error {
	var rerr *registry.Error
	if !errors.As(err, &rerr) {
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	switch rerr.Kind {
	case registry.KindNotFound:
		return ociErrorEnvelope(c, fiber.StatusNotFound, "BLOB_UNKNOWN", "not found")
	case registry.KindDigestMismatch:
		return c.Status(fiber.StatusBadRequest).SendString("digest mismatch")
	case registry.KindParseDigest:
		return c.Status(fiber.StatusBadRequest).SendString("could not parse digest")
	case registry.KindParseManifest:
		return c.Status(fiber.StatusBadRequest).SendString(rerr.Error())
	case registry.KindContentLengthMalformed:
		return c.Status(fiber.StatusBadRequest).SendString("invalid content length")
	case registry.KindNotSupported:
		return c.Status(fiber.StatusInternalServerError).SendString(rerr.Error())
	case registry.KindAuthRequired:
		c.Set(fiber.HeaderWWWAuthenticate, authRealm)
		return c.Status(fiber.StatusUnauthorized).SendString("authentication required")
	case registry.KindIncomingReadFailed, registry.KindLocalWriteFailed, registry.KindStorageIO:
		return c.Status(fiber.StatusInternalServerError).SendString("storage error")
	default:
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
}

// ociErrorEnvelope writes the OCI distribution error body used for blob
// and manifest read misses.
func ociErrorEnvelope(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"errors": []fiber.Map{
			{"code": code, "message": message, "detail": nil},
		},
	})
}
