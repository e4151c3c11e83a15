package api

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ocireg/registry/internal/registry"
)

func manifestLocation(repo, image, reference string) string {
	return fmt.Sprintf("/v2/%s/%s/manifests/%s", repo, image, reference)
}

func (h *Handler) putManifest(c *fiber.Ctx) error {
	loc := registry.ImageLocation{Repository: c.Params("repo"), Image: c.Params("image")}

	ref, err := registry.ParseReference(c.Params("reference"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	manifestRef := registry.ManifestReference{Location: loc, Ref: ref}

	digest, err := h.store.PutManifest(c.Context(), manifestRef, c.Body())
	if err != nil {
		return writeError(c, err)
	}

	h.hookSink.OnManifestUploaded(c.Context(), manifestRef)

	c.Set("Docker-Content-Digest", digest.String())
	c.Set(fiber.HeaderLocation, manifestLocation(loc.Repository, loc.Image, c.Params("reference")))
	c.Set(fiber.HeaderContentLength, "0")
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handler) getManifest(c *fiber.Ctx) error {
	loc := registry.ImageLocation{Repository: c.Params("repo"), Image: c.Params("image")}

	ref, err := registry.ParseReference(c.Params("reference"))
	if err != nil {
		return writeError(c, registry.Wrap(registry.KindParseDigest, err))
	}

	data, ok, err := h.store.GetManifest(c.Context(), registry.ManifestReference{Location: loc, Ref: ref})
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return writeError(c, registry.NewError(registry.KindNotFound))
	}

	mediaType, err := registry.ManifestMediaType(data)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, mediaType)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Send(data)
}
