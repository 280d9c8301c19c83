// Package settingsstore implements the gateway's settings collaborator: a
// string-typed key/value store the gateway reads for
// "run_result_timeout" and "allow_unauthenticated_requests_for_scan_devices".
// An in-memory implementation backs tests and zero-config runs; a
// Postgres-backed implementation (postgres.go) is used in production.
package settingsstore

import (
	"context"
	"sync"
)

// Store is the narrow collaborator the gateway consults for settings
// overrides. GetSetting returns ("", false) when no override is recorded,
// letting callers fall back to their own compiled-in default.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key string, value string) error
}

// Well-known setting keys.
const (
	KeyRunResultTimeout                = "run_result_timeout"
	KeyAllowUnauthenticatedScanDevices = "allow_unauthenticated_requests_for_scan_devices"
)

// Memory is an in-memory Store, used by tests and by wdxgwd when no
// database URL is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetSetting(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) PutSetting(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

var _ Store = (*Memory)(nil)
