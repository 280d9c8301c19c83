package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

func TestFake_GetDevice(t *testing.T) {
	f := NewFake()
	f.SeedDevice(Device{ID: wdadomain.Headstation, Name: "headstation"})

	res, err := f.GetDevice(context.Background(), wdadomain.Headstation).Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, res.HasError())
	assert.Equal(t, "headstation", res.Payload.Name)

	res2, err2 := f.GetDevice(context.Background(), wdadomain.DeviceID{Slot: 9}).Wait(context.Background())
	require.NoError(t, err2)
	assert.True(t, res2.HasError())
	assert.Equal(t, CoreStatusNotFound, res2.Status)
}

func TestFake_SetThenGetParameter(t *testing.T) {
	f := NewFake()
	path := wdadomain.ParameterInstancePath{Device: wdadomain.Headstation, Path: "a"}

	_, err := f.SetParameterValuesByPath(context.Background(), []ValuePathWrite{
		{Path: path, Value: wdadomain.ParameterValue{Value: float64(3), DataType: "int32"}},
	}, false).Wait(context.Background())
	require.NoError(t, err)

	res, err2 := f.GetParametersByPath(context.Background(), []wdadomain.ParameterInstancePath{path}).Wait(context.Background())
	require.NoError(t, err2)
	require.Len(t, res.Payload, 1)
	require.NotNil(t, res.Payload[0].Value)
	assert.Equal(t, float64(3), res.Payload[0].Value.Value)
}

func TestFake_MonitoringListLifecycle(t *testing.T) {
	f := NewFake()
	path := wdadomain.ParameterInstancePath{Device: wdadomain.Headstation, Path: "a"}
	f.SeedParameter(path, wdadomain.ParameterValue{Value: float64(1), DataType: "int32"})

	created, err := f.CreateMonitoringListWithPaths(context.Background(), []wdadomain.ParameterInstancePath{path}, 5).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(5), created.Payload.Timeout)

	got, err2 := f.GetMonitoringList(context.Background(), created.Payload.ID).Wait(context.Background())
	require.NoError(t, err2)
	assert.Equal(t, created.Payload.ID, got.Payload.ID)

	_, err3 := f.DeleteMonitoringList(context.Background(), created.Payload.ID).Wait(context.Background())
	require.NoError(t, err3)

	afterDelete, err4 := f.GetMonitoringList(context.Background(), created.Payload.ID).Wait(context.Background())
	require.NoError(t, err4)
	assert.True(t, afterDelete.HasError())
}
