// Package kv define el almacenamiento clave-valor sobre el que se guarda el
// historial de consultas, con implementaciones en memoria, bbolt, Redis,
// PostgreSQL y SQLite.
package kv

import (
	"context"
	"sync"
)

// Backend es un almacen clave-valor con escrituras sincronas.
// Get devuelve found=false (sin error) cuando la clave no existe.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type memoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory devuelve un Backend en memoria, util para tests y modo efimero.
func NewMemory() Backend {
	return &memoryBackend{items: make(map[string][]byte)}
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryBackend) Close() error {
	return nil
}
