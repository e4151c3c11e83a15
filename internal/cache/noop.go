package cache

import "context"

// NoopTagCache never caches anything; every Get is a miss. It's the
// default when no Redis address is configured, so the tag-cache seam can
// always be exercised without making Redis a hard dependency.
type NoopTagCache struct{}

func (NoopTagCache) Get(context.Context, Key) (string, bool) { return "", false }
func (NoopTagCache) Set(context.Context, Key, string)        {}
func (NoopTagCache) Invalidate(context.Context, Key)         {}
