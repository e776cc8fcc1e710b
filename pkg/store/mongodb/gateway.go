// Package mongodb provides the process-wide MongoDB persistence gateway.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/observability/tracing"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

// DatabaseName is the logical database every collection lives in.
const DatabaseName = "nextdb"

// ErrClosed is returned by operations on a gateway after Close.
var ErrClosed = errors.New("mongodb gateway is closed")

// State is the connection state of a Gateway.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config holds gateway configuration.
type Config struct {
	URL              string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// ConnectFunc opens a client and verifies it is reachable.
type ConnectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Option customizes a Gateway.
type Option func(*Gateway)

// WithConnectFunc replaces the function used to open connections.
func WithConnectFunc(fn ConnectFunc) Option {
	return func(g *Gateway) {
		if fn != nil {
			g.connect = fn
		}
	}
}

// Gateway owns the single MongoDB client shared by every request.
// The client is opened lazily by EnsureConnected; concurrent callers that find
// the gateway disconnected share one in-flight attempt.
type Gateway struct {
	cfg     Config
	logger  logger.Logger
	connect ConnectFunc
	group   singleflight.Group

	mu     sync.RWMutex
	state  State
	client *mongo.Client
	closed bool
}

// NewGateway validates cfg and returns a disconnected gateway. No network I/O happens here.
func NewGateway(cfg Config, log logger.Logger, opts ...Option) (*Gateway, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongodb URL is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	g := &Gateway{
		cfg:     cfg,
		logger:  log.With("component", "mongodb_gateway"),
		connect: dial,
	}
	for _, opt := range opts {
		opt(g)
	}
	metrics.SetStoreConnectionState(int(StateDisconnected))
	return g, nil
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// State returns the current connection state.
func (g *Gateway) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// EnsureConnected returns once the gateway holds a live client.
// It returns immediately when already connected. Otherwise it joins or starts
// the single connect attempt; a failed attempt leaves the gateway disconnected
// so the next call retries. ctx only bounds how long this caller waits.
func (g *Gateway) EnsureConnected(ctx context.Context) error {
	g.mu.RLock()
	state, closed := g.state, g.closed
	g.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if state == StateConnected {
		return nil
	}

	ch := g.group.DoChan("connect", func() (any, error) {
		return nil, g.connectOnce(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) connectOnce(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.state == StateConnected {
		g.mu.Unlock()
		return nil
	}
	g.state = StateConnecting
	g.mu.Unlock()
	metrics.SetStoreConnectionState(int(StateConnecting))

	connectCtx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()
	spanCtx, span := tracing.StartStoreSpan(connectCtx, tracing.SpanOperationConnect,
		tracing.WithDBSystem("mongodb"), tracing.WithDBName(DatabaseName))
	defer span.End()

	client, err := g.connect(spanCtx, g.cfg.URL)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateDisconnected
		metrics.SetStoreConnectionState(int(StateDisconnected))
		metrics.RecordStoreConnectAttempt(false)
		tracing.RecordError(span, err)
		g.logger.Error("MongoDB connection failed", "error", err)
		return err
	}
	if g.closed {
		// Close raced with the attempt; drop the fresh client.
		g.state = StateDisconnected
		go func() { _ = client.Disconnect(context.Background()) }()
		return ErrClosed
	}
	g.client = client
	g.state = StateConnected
	metrics.SetStoreConnectionState(int(StateConnected))
	metrics.RecordStoreConnectAttempt(true)
	tracing.RecordSuccess(span)
	g.logger.Info("MongoDB connection established", "database", DatabaseName)
	return nil
}

// Collection connects if needed and returns a handle on the named collection.
func (g *Gateway) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if err := g.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	g.mu.RLock()
	client := g.client
	g.mu.RUnlock()
	if client == nil {
		return nil, ErrClosed
	}
	return client.Database(DatabaseName).Collection(name), nil
}

// Run executes fn against collection with the operation timeout applied and
// records a span and a duration metric for it. Errors for which notFound
// returns true are reported with status "not_found" rather than "error".
func (g *Gateway) Run(ctx context.Context, collection string, op tracing.SpanOperation, fn func(ctx context.Context, coll *mongo.Collection) error) error {
	coll, err := g.Collection(ctx, collection)
	if err != nil {
		return err
	}

	opCtx, cancel := g.WithOperationTimeout(ctx)
	defer cancel()
	opCtx, span := tracing.StartStoreSpan(opCtx, op,
		tracing.WithCollection(collection), tracing.WithDBSystem("mongodb"), tracing.WithDBName(DatabaseName))
	defer span.End()

	start := time.Now()
	err = fn(opCtx, coll)
	status := "ok"
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		status = "not_found"
		tracing.RecordSuccess(span)
	case err != nil:
		status = "error"
		tracing.RecordError(span, err)
	default:
		tracing.RecordSuccess(span)
	}
	metrics.RecordStoreOperation(collection, string(op), status, time.Since(start))
	return err
}

// WithOperationTimeout bounds ctx by the configured operation timeout unless
// the caller already set a deadline.
func (g *Gateway) WithOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.cfg.OperationTimeout)
}

// Ping checks the server is reachable without opening a connection.
func (g *Gateway) Ping(ctx context.Context) error {
	g.mu.RLock()
	closed, client := g.closed, g.client
	g.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if client == nil {
		return fmt.Errorf("mongodb gateway is %s", StateDisconnected)
	}
	return client.Ping(ctx, readpref.Primary())
}

// HealthCheck connects if needed and pings the primary.
func (g *Gateway) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := g.EnsureConnected(hcCtx); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	if err := g.Ping(hcCtx); err != nil {
		g.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client. It is safe to call more than once.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	client := g.client
	g.client = nil
	g.state = StateDisconnected
	g.mu.Unlock()
	metrics.SetStoreConnectionState(int(StateDisconnected))

	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}
