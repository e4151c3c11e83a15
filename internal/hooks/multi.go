package hooks

import (
	"context"
	"sync"

	"github.com/ocireg/registry/internal/registry"
)

// MultiHook fans a single notification out to every sink concurrently.
// It implements Sink itself so it composes like any other sink.
type MultiHook struct {
	sinks []Sink
}

func NewMultiHook(sinks ...Sink) *MultiHook {
	return &MultiHook{sinks: sinks}
}

func (m *MultiHook) OnManifestUploaded(ctx context.Context, ref registry.ManifestReference) {
	var wg sync.WaitGroup
	for _, s := range m.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			s.OnManifestUploaded(ctx, ref)
		}(s)
	}
	wg.Wait()
}
