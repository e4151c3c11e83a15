// Package api binds the registry core (storage, auth, hooks) to HTTP via
// gofiber/fiber, implementing the push/pull protocol's eight endpoints.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ocireg/registry/internal/auth"
	"github.com/ocireg/registry/internal/hooks"
	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/storage"
)

// Handler holds the three capability bundles the protocol handler treats
// as opaque providers, per the core's construction-time wiring.
type Handler struct {
	store    storage.Store
	authn    auth.Provider
	hookSink hooks.Sink
	log      *logx.Logger
}

func NewHandler(store storage.Store, authn auth.Provider, hookSink hooks.Sink, log *logx.Logger) *Handler {
	return &Handler{store: store, authn: authn, hookSink: hookSink, log: log}
}

// Router builds a fiber app with every route wired, the Authenticator gate
// applied uniformly, including the base index: requireAuth itself is what
// keeps the index reachable anonymously (401, not a dropped connection).
func (h *Handler) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})

	v2 := app.Group("/v2")
	v2.Get("/", requireAuth(h.authn, h.log), h.index)

	gated := v2.Group("/:repo/:image", requireAuth(h.authn, h.log))
	gated.Head("/blobs/:digest", h.headBlob)
	gated.Get("/blobs/:digest", h.getBlob)
	gated.Post("/blobs/uploads/", h.beginUpload)
	gated.Patch("/uploads/:uuid", h.patchUpload)
	gated.Put("/uploads/:uuid", h.finalizeUpload)
	gated.Put("/manifests/:reference", h.putManifest)
	gated.Get("/manifests/:reference", h.getManifest)

	return app
}

func (h *Handler) index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, authRealm)
	return c.SendStatus(fiber.StatusOK)
}
