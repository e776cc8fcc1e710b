// Package testutil provides test doubles shared by the middleware and API tests.
package testutil

import (
	"context"
	"sync"

	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/observability/logger"
)

// MockLogger is a test logger that captures log entries for assertion in tests.
// Loggers derived with With or WithContext record into the same entry list.
type MockLogger struct {
	mu     *sync.Mutex
	logs   *[]LogEntry
	fields map[string]interface{}
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// NewMockLogger creates an empty capturing logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{mu: &sync.Mutex{}, logs: &[]LogEntry{}}
}

// Entries returns a snapshot of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), (*m.logs)...)
}

// Find returns the entries with the given message.
func (m *MockLogger) Find(msg string) []LogEntry {
	var found []LogEntry
	for _, entry := range m.Entries() {
		if entry.Msg == msg {
			found = append(found, entry)
		}
	}
	return found
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record("debug", msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record("info", msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record("warn", msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.record("error", msg, args) }

// With returns a logger that adds args to every entry.
func (m *MockLogger) With(args ...any) logger.Logger {
	fields := make(map[string]interface{}, len(m.fields)+len(args)/2)
	for k, v := range m.fields {
		fields[k] = v
	}
	for k, v := range argsToMap(args) {
		fields[k] = v
	}
	return &MockLogger{mu: m.mu, logs: m.logs, fields: fields}
}

// WithContext adds the request ID found in ctx, if any.
func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	if id := middleware.RequestID(ctx); id != "" {
		return m.With("request_id", id)
	}
	return m
}

func (m *MockLogger) record(level, msg string, args []any) {
	fields := argsToMap(args)
	for k, v := range m.fields {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.logs = append(*m.logs, LogEntry{Level: level, Msg: msg, Fields: fields})
}

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
