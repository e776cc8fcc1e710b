package mongodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nimburion/blogapi/pkg/observability/tracing"
	"github.com/nimburion/blogapi/pkg/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestGateway_Integration(t *testing.T) {
	uri := testutil.MongoURI(t)

	g, err := NewGateway(Config{URL: uri, ConnectTimeout: 30 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	defer g.Close()

	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- g.EnsureConnected(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("EnsureConnected() error = %v", err)
		}
	}
	if g.State() != StateConnected {
		t.Fatalf("state = %s", g.State())
	}

	if err := g.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}

	err = g.Run(ctx, "gateway_smoke", tracing.SpanOperationInsert, func(ctx context.Context, coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, bson.M{"smoke": true})
		return err
	})
	if err != nil {
		t.Fatalf("Run(insert) error = %v", err)
	}

	coll, err := g.Collection(ctx, "gateway_smoke")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if coll.Database().Name() != DatabaseName {
		t.Errorf("database = %s, want %s", coll.Database().Name(), DatabaseName)
	}
	_ = coll.Drop(ctx)

	if err := g.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := g.EnsureConnected(ctx); err != ErrClosed {
		t.Errorf("EnsureConnected() after Close = %v, want ErrClosed", err)
	}
}
