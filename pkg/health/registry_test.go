package health

import (
	"context"
	"reflect"
	"testing"
	"time"
)

type mockChecker struct {
	name   string
	status Status
	delay  time.Duration
}

func (m *mockChecker) Check(ctx context.Context) CheckResult {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return CheckResult{Name: m.name, Status: StatusUnhealthy, Error: ctx.Err().Error()}
		}
	}
	return CheckResult{Name: m.name, Status: m.status}
}

func (m *mockChecker) Name() string {
	return m.name
}

func TestRegistry_RegisterAndList(t *testing.T) {
	registry := NewRegistry()
	if got := registry.List(); len(got) != 0 {
		t.Fatalf("new registry lists %v", got)
	}

	registry.Register(&mockChecker{name: "mongodb", status: StatusHealthy})
	registry.Register(&mockChecker{name: "cache", status: StatusHealthy})
	registry.Register(&mockChecker{name: "mongodb", status: StatusUnhealthy})

	if got, want := registry.List(), []string{"cache", "mongodb"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	result, err := registry.CheckOne(context.Background(), "mongodb")
	if err != nil {
		t.Fatalf("CheckOne() error = %v", err)
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("re-registering should replace the checker, got %s", result.Status)
	}

	registry.Unregister("cache")
	if got := registry.List(); !reflect.DeepEqual(got, []string{"mongodb"}) {
		t.Errorf("List() after Unregister = %v", got)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "empty registry", want: StatusHealthy},
		{name: "all healthy", statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy},
		{name: "one degraded", statuses: []Status{StatusHealthy, StatusDegraded}, want: StatusDegraded},
		{name: "one unhealthy", statuses: []Status{StatusHealthy, StatusUnhealthy}, want: StatusUnhealthy},
		{name: "unhealthy beats degraded", statuses: []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for i, status := range tt.statuses {
				registry.Register(&mockChecker{name: string(rune('a' + i)), status: status})
			}

			result := registry.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %s, want %s", result.Status, tt.want)
			}
			if len(result.Checks) != len(tt.statuses) {
				t.Errorf("got %d results, want %d", len(result.Checks), len(tt.statuses))
			}
			if result.IsHealthy() != (tt.want == StatusHealthy) {
				t.Errorf("IsHealthy() = %v for %s", result.IsHealthy(), tt.want)
			}
		})
	}
}

func TestRegistry_Check_OrderedByName(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		registry.Register(&mockChecker{name: name, status: StatusHealthy})
	}

	result := registry.Check(context.Background())
	var names []string
	for _, c := range result.Checks {
		names = append(names, c.Name)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestRegistry_Check_RunsConcurrently(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"a", "b", "c", "d"} {
		registry.Register(&mockChecker{name: name, status: StatusHealthy, delay: 100 * time.Millisecond})
	}

	start := time.Now()
	registry.Check(context.Background())
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("checks appear sequential: took %v", elapsed)
	}
}

func TestRegistry_Check_ContextCancellation(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockChecker{name: "slow", status: StatusHealthy, delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result := registry.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %s, want unhealthy after cancellation", result.Status)
	}
}

func TestRegistry_CheckOne_Unknown(t *testing.T) {
	if _, err := NewRegistry().CheckOne(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown checker")
	}
}

func TestFunc(t *testing.T) {
	checker := Func("version", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	if checker.Name() != "version" {
		t.Errorf("Name() = %q", checker.Name())
	}
	if got := checker.Check(context.Background()); got.Name != "version" {
		t.Errorf("result name = %q, want the checker name", got.Name)
	}
}
