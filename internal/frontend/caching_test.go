package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wago/wdx-gateway/internal/cache"
)

// countingFrontend wraps a Fake and counts GetEnumDefinition/
// GetAllEnumDefinitions/GetFeaturesOfAllDevices calls, so tests can assert
// the caching layer actually suppresses repeat backend round-trips.
type countingFrontend struct {
	*Fake
	enumCalls    int
	allEnumCalls int
	featCalls    int
}

func (c *countingFrontend) GetEnumDefinition(ctx context.Context, name string) *Future[Result[EnumDefinition]] {
	c.enumCalls++
	return c.Fake.GetEnumDefinition(ctx, name)
}

func (c *countingFrontend) GetAllEnumDefinitions(ctx context.Context) *Future[Result[[]EnumDefinition]] {
	c.allEnumCalls++
	return c.Fake.GetAllEnumDefinitions(ctx)
}

func (c *countingFrontend) GetFeaturesOfAllDevices(ctx context.Context) *Future[Result[[]Feature]] {
	c.featCalls++
	return c.Fake.GetFeaturesOfAllDevices(ctx)
}

func TestCachingFrontend_GetEnumDefinition_CachesAfterFirstCall(t *testing.T) {
	inner := &countingFrontend{Fake: NewFake()}
	inner.SeedEnum(EnumDefinition{Name: "Color", Values: []EnumValue{{Name: "Red", Value: 1}}})

	c := NewCachingFrontend(inner, cache.Options{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := c.GetEnumDefinition(ctx, "Color").Wait(ctx)
		require.NoError(t, err)
		assert.False(t, res.HasError())
		assert.Equal(t, "Color", res.Payload.Name)
	}

	assert.Equal(t, 1, inner.enumCalls)
}

func TestCachingFrontend_DoesNotCacheErrors(t *testing.T) {
	inner := &countingFrontend{Fake: NewFake()}
	c := NewCachingFrontend(inner, cache.Options{})
	ctx := context.Background()

	res, err := c.GetEnumDefinition(ctx, "Missing").Wait(ctx)
	require.NoError(t, err)
	assert.True(t, res.HasError())

	_, err2 := c.GetEnumDefinition(ctx, "Missing").Wait(ctx)
	require.NoError(t, err2)

	assert.Equal(t, 2, inner.enumCalls)
}

func TestCachingFrontend_GetAllEnumDefinitions_Caches(t *testing.T) {
	inner := &countingFrontend{Fake: NewFake()}
	inner.SeedEnum(EnumDefinition{Name: "Color"})

	c := NewCachingFrontend(inner, cache.Options{})
	ctx := context.Background()

	_, err := c.GetAllEnumDefinitions(ctx).Wait(ctx)
	require.NoError(t, err)
	_, err = c.GetAllEnumDefinitions(ctx).Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.allEnumCalls)
}

func TestCachingFrontend_GetFeaturesOfAllDevices_Caches(t *testing.T) {
	inner := &countingFrontend{Fake: NewFake()}
	c := NewCachingFrontend(inner, cache.Options{})
	ctx := context.Background()

	_, err := c.GetFeaturesOfAllDevices(ctx).Wait(ctx)
	require.NoError(t, err)
	_, err = c.GetFeaturesOfAllDevices(ctx).Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.featCalls)
}

func TestCachingFrontend_PassesThroughUncachedMethods(t *testing.T) {
	inner := &countingFrontend{Fake: NewFake()}
	c := NewCachingFrontend(inner, cache.Options{})
	ctx := context.Background()

	_, err := c.GetAllDevices(ctx).Wait(ctx)
	require.NoError(t, err)
}
