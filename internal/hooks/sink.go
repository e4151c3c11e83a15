// Package hooks provides the post-write notification seam: every
// successful manifest upload is announced to one or more sinks after the
// fact. Sinks never influence the outcome of the request that triggered
// them — a failing hook is logged and swallowed, never surfaced to the
// client.
package hooks

import (
	"context"

	"github.com/ocireg/registry/internal/registry"
)

// Sink receives manifest-upload notifications.
type Sink interface {
	OnManifestUploaded(ctx context.Context, ref registry.ManifestReference)
}
