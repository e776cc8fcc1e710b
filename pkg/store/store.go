// Package store defines the persistence gateway contract and selects an implementation from config.
package store

import "context"

// Adapter is the minimal lifecycle and health contract for storage backends.
type Adapter interface {
	HealthCheck(ctx context.Context) error
	Close() error
}

// Gateway is the process-wide connection handle that handlers call before
// touching a repository.
type Gateway interface {
	Adapter
	EnsureConnected(ctx context.Context) error
}

// InProcess is the Gateway used with the memory repositories. It is always connected.
type InProcess struct{}

// EnsureConnected always succeeds.
func (InProcess) EnsureConnected(context.Context) error { return nil }

// HealthCheck always succeeds.
func (InProcess) HealthCheck(context.Context) error { return nil }

// Close is a no-op.
func (InProcess) Close() error { return nil }
