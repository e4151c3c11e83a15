package hooks

import (
	"context"

	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/registry"
)

// LoggingSink records every manifest upload at info level. It is always
// wired in alongside whatever other sinks are configured.
type LoggingSink struct {
	log *logx.Logger
}

func NewLoggingSink(log *logx.Logger) *LoggingSink {
	return &LoggingSink{log: log}
}

func (s *LoggingSink) OnManifestUploaded(ctx context.Context, ref registry.ManifestReference) {
	s.log.WithFunc().WithFields(map[string]interface{}{
		"repository": ref.Location.Repository,
		"image":      ref.Location.Image,
		"reference":  ref.Ref.String(),
	}).Info("manifest uploaded")
}
