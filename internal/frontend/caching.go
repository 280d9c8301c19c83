package frontend

import (
	"context"

	"github.com/wago/wdx-gateway/internal/cache"
)

// CachingFrontend wraps a Frontend and caches the backend's slow-changing
// static metadata — enum definitions and the all-devices feature list —
// behind a TTL cache, the same decorator shape used to shield a store from
// repeated lookups of rarely-changing metadata. Parameter values, method
// runs, and monitoring lists are never cached: they change on every write
// and a stale read would violate the gateway's own freshness contract.
type CachingFrontend struct {
	Frontend

	enums          *cache.Cache[string, EnumDefinition]
	allEnums       *cache.Cache[string, []EnumDefinition]
	allDeviceFeats *cache.Cache[string, []Feature]
}

// allEnumsKey/allDeviceFeatsKey are the single cache key each all-X cache
// holds, since GetAllEnumDefinitions/GetFeaturesOfAllDevices take no
// parameters to key on.
const (
	allEnumsKey       = "all"
	allDeviceFeatsKey = "all"
)

// NewCachingFrontend wraps inner with TTL caches for enum definitions and
// the all-devices feature list.
func NewCachingFrontend(inner Frontend, opts cache.Options) *CachingFrontend {
	return &CachingFrontend{
		Frontend:       inner,
		enums:          cache.New[string, EnumDefinition](opts),
		allEnums:       cache.New[string, []EnumDefinition](opts),
		allDeviceFeats: cache.New[string, []Feature](opts),
	}
}

func (c *CachingFrontend) GetEnumDefinition(ctx context.Context, name string) *Future[Result[EnumDefinition]] {
	if v, ok := c.enums.Get(name); ok {
		return Resolved(Success(v))
	}
	future, resolver := NewFuture[Result[EnumDefinition]]()
	go func() {
		result, err := c.Frontend.GetEnumDefinition(ctx, name).Wait(ctx)
		if err != nil {
			resolver.Reject(err)
			return
		}
		if !result.HasError() {
			c.enums.Set(name, result.Payload)
		}
		resolver.Resolve(result)
	}()
	return future
}

func (c *CachingFrontend) GetAllEnumDefinitions(ctx context.Context) *Future[Result[[]EnumDefinition]] {
	if v, ok := c.allEnums.Get(allEnumsKey); ok {
		return Resolved(Success(v))
	}
	future, resolver := NewFuture[Result[[]EnumDefinition]]()
	go func() {
		result, err := c.Frontend.GetAllEnumDefinitions(ctx).Wait(ctx)
		if err != nil {
			resolver.Reject(err)
			return
		}
		if !result.HasError() {
			c.allEnums.Set(allEnumsKey, result.Payload)
		}
		resolver.Resolve(result)
	}()
	return future
}

func (c *CachingFrontend) GetFeaturesOfAllDevices(ctx context.Context) *Future[Result[[]Feature]] {
	if v, ok := c.allDeviceFeats.Get(allDeviceFeatsKey); ok {
		return Resolved(Success(v))
	}
	future, resolver := NewFuture[Result[[]Feature]]()
	go func() {
		result, err := c.Frontend.GetFeaturesOfAllDevices(ctx).Wait(ctx)
		if err != nil {
			resolver.Reject(err)
			return
		}
		if !result.HasError() {
			c.allDeviceFeats.Set(allDeviceFeatsKey, result.Payload)
		}
		resolver.Resolve(result)
	}()
	return future
}

var _ Frontend = (*CachingFrontend)(nil)
