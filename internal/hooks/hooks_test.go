package hooks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ocireg/registry/internal/registry"
)

type countingSink struct {
	calls int32
	wg    *sync.WaitGroup
}

func (s *countingSink) OnManifestUploaded(ctx context.Context, ref registry.ManifestReference) {
	atomic.AddInt32(&s.calls, 1)
	if s.wg != nil {
		s.wg.Done()
	}
}

func TestMultiHookFansOutToAllSinks(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	sinks := []*countingSink{{wg: &wg}, {wg: &wg}, {wg: &wg}}

	multi := NewMultiHook(Sink(sinks[0]), Sink(sinks[1]), Sink(sinks[2]))

	ref := registry.ManifestReference{
		Location: registry.ImageLocation{Repository: "tests", Image: "sample"},
		Ref:      registry.Tag("latest"),
	}
	multi.OnManifestUploaded(context.Background(), ref)
	wg.Wait()

	for _, s := range sinks {
		assert.EqualValues(t, 1, atomic.LoadInt32(&s.calls))
	}
}

func TestMultiHookWithNoSinksIsNoop(t *testing.T) {
	multi := NewMultiHook()
	ref := registry.ManifestReference{
		Location: registry.ImageLocation{Repository: "tests", Image: "sample"},
		Ref:      registry.Tag("latest"),
	}
	assert.NotPanics(t, func() {
		multi.OnManifestUploaded(context.Background(), ref)
	})
}
