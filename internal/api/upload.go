package api

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ocireg/registry/internal/registry"
)

func uploadLocation(repo, image string, id uuid.UUID) string {
	return fmt.Sprintf("/v2/%s/%s/uploads/%s", repo, image, id.String())
}

func (h *Handler) beginUpload(c *fiber.Ctx) error {
	id, err := h.store.BeginUpload(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	loc := uploadLocation(c.Params("repo"), c.Params("image"), id)
	c.Set(fiber.HeaderLocation, loc)
	c.Set(fiber.HeaderContentLength, "0")
	c.Set("Docker-Upload-UUID", id.String())
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *Handler) patchUpload(c *fiber.Ctx) error {
	if c.Get("Range") != "" {
		return writeError(c, registry.NotSupported("chunked uploads"))
	}

	id, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	writer, err := h.store.UploadWriter(c.Context(), id, 0)
	if err != nil {
		return writeError(c, err)
	}
	defer writer.Close()

	body := c.Context().RequestBodyStream()
	completed, err := io.Copy(writer, body)
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindIncomingReadFailed, err))
	}

	loc := uploadLocation(c.Params("repo"), c.Params("image"), id)
	c.Set(fiber.HeaderLocation, loc)
	c.Set("Range", "0-"+strconv.FormatInt(completed, 10))
	c.Set("Docker-Upload-UUID", id.String())
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *Handler) finalizeUpload(c *fiber.Ctx) error {
	if cl := c.Get(fiber.HeaderContentLength); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil {
			return writeError(c, registry.Wrap(registry.KindContentLengthMalformed, err))
		}
		if n != 0 {
			return writeError(c, registry.NotSupported("non-empty finalize body"))
		}
	}

	id, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	digest, err := registry.ParseDigest(c.Query("digest"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	if err := h.store.FinalizeUpload(c.Context(), id, digest); err != nil {
		return writeError(c, err)
	}

	c.Set("Docker-Content-Digest", digest.String())
	c.Set(fiber.HeaderLocation, uploadLocation(c.Params("repo"), c.Params("image"), id))
	return c.SendStatus(fiber.StatusCreated)
}
