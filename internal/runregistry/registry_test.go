package runregistry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

func TestRegistry_AddGet(t *testing.T) {
	reg := New(10)
	run := &wdadomain.MethodRunObject{ID: "r1", Deadline: time.Now().Add(time.Minute), State: wdadomain.RunInProgress}
	reg.Add(run)

	got, ok := reg.Get("r1")
	require.True(t, ok)
	assert.Equal(t, run, got)

	_, ok2 := reg.Get("unknown")
	assert.False(t, ok2)
}

func TestRegistry_MaxRunsReached(t *testing.T) {
	reg := New(1)
	assert.False(t, reg.MaxRunsReached())
	reg.Add(&wdadomain.MethodRunObject{ID: "r1", Deadline: time.Now().Add(time.Minute)})
	assert.True(t, reg.MaxRunsReached())
}

func TestRegistry_GetLive_Expired(t *testing.T) {
	reg := New(10)
	run := &wdadomain.MethodRunObject{ID: "r1", Deadline: time.Now().Add(-time.Second), State: wdadomain.RunInProgress}
	reg.Add(run)

	_, lookup := reg.GetLive("r1", time.Now())
	assert.Equal(t, LookupExpired, lookup)
	assert.Equal(t, wdadomain.RunRemoved, run.State)
}

func TestRegistry_GetLive_NotFound(t *testing.T) {
	reg := New(10)
	_, lookup := reg.GetLive("nope", time.Now())
	assert.Equal(t, LookupNotFound, lookup)
}

func TestRegistry_GetLive_Live(t *testing.T) {
	reg := New(10)
	reg.Add(&wdadomain.MethodRunObject{ID: "r1", Deadline: time.Now().Add(time.Minute), State: wdadomain.RunInProgress})
	_, lookup := reg.GetLive("r1", time.Now())
	assert.Equal(t, LookupLive, lookup)
}

func TestRegistry_Remove(t *testing.T) {
	reg := New(10)
	reg.Add(&wdadomain.MethodRunObject{ID: "r1", Deadline: time.Now().Add(time.Minute)})
	reg.Remove("r1")
	_, ok := reg.Get("r1")
	assert.False(t, ok)
}

func TestRegistry_SweepExpired(t *testing.T) {
	reg := New(10)
	reg.Add(&wdadomain.MethodRunObject{ID: "expired", Deadline: time.Now().Add(-time.Minute)})
	reg.Add(&wdadomain.MethodRunObject{ID: "live", Deadline: time.Now().Add(time.Minute)})

	removed := reg.SweepExpired(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get("live")
	assert.True(t, ok)
}

func TestStartSweep_RemovesExpiredRunsInBackground(t *testing.T) {
	reg := New(10)
	reg.Add(&wdadomain.MethodRunObject{ID: "expired", Deadline: time.Now().Add(-time.Minute)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartSweep(ctx, reg, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return reg.Len() == 0
	}, time.Second, 5*time.Millisecond)
}
