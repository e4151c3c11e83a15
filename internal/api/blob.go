package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ocireg/registry/internal/registry"
)

func (h *Handler) headBlob(c *fiber.Ctx) error {
	digest, err := registry.ParseDigest(c.Params("digest"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	meta, ok, err := h.store.BlobMetadata(c.Context(), digest)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderContentLength, strconv.FormatInt(meta.Size, 10))
	c.Set("Docker-Content-Digest", digest.String())
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) getBlob(c *fiber.Ctx) error {
	digest, err := registry.ParseDigest(c.Params("digest"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	reader, ok, err := h.store.BlobReader(c.Context(), digest)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return ociErrorEnvelope(c, fiber.StatusNotFound, "BLOB_UNKNOWN", "blob unknown to registry")
	}
	defer reader.Close()

	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set("Docker-Content-Digest", digest.String())
	return c.SendStream(reader)
}
