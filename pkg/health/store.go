package health

import (
	"context"
	"time"
)

// Checkable is implemented by the persistence gateways.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// StoreChecker reports whether the document store answers a ping.
type StoreChecker struct {
	name    string
	store   Checkable
	timeout time.Duration
	state   func() string
}

// StoreOption customizes a StoreChecker.
type StoreOption func(*StoreChecker)

// WithTimeout bounds each check. The default is 5s.
func WithTimeout(d time.Duration) StoreOption {
	return func(c *StoreChecker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithState adds the gateway connection state to the result metadata.
func WithState(state func() string) StoreOption {
	return func(c *StoreChecker) {
		c.state = state
	}
}

// NewStoreChecker creates a checker named name for store.
func NewStoreChecker(name string, store Checkable, opts ...StoreOption) *StoreChecker {
	c := &StoreChecker{name: name, store: store, timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the store health check under the configured timeout.
func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.store.HealthCheck(checkCtx)
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "OK",
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = ""
		result.Error = err.Error()
	}
	if c.state != nil {
		result.Metadata = map[string]interface{}{"state": c.state()}
	}
	return result
}

// Name returns the name of the health check
func (c *StoreChecker) Name() string {
	return c.name
}
