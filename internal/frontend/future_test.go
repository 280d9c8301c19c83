package frontend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_ResolveThenWait(t *testing.T) {
	f, r := NewFuture[int]()
	assert.False(t, f.HasValue())
	r.Resolve(42)
	assert.True(t, f.HasValue())

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFuture_RejectThenWait(t *testing.T) {
	f, r := NewFuture[int]()
	boom := assertError("boom")
	r.Reject(boom)

	_, err := f.Wait(context.Background())
	assert.Equal(t, boom, err)
}

func TestFuture_WaitRespectsContextDeadline(t *testing.T) {
	f, _ := NewFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_DoubleResolveIsNoOp(t *testing.T) {
	f, r := NewFuture[int]()
	r.Resolve(1)
	r.Resolve(2)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestResolvedAndRejected(t *testing.T) {
	f := Resolved(7)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	boom := assertError("boom")
	f2 := Rejected[int](boom)
	_, err2 := f2.Wait(context.Background())
	assert.Equal(t, boom, err2)
}

type testError string

func (e testError) Error() string { return string(e) }

func assertError(s string) error { return testError(s) }
