package telemetry

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/posthog/posthog-go"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]posthog.Capture, len(m.events))
	copy(result, m.events)
	return result
}

func (m *mockEnqueuer) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// newTestClient creates a PostHogClient with a mock enqueuer for testing.
func newTestClient(cfg *Config, version string) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	client := newPostHogClientWithEnqueuer(mock, cfg, version)
	return client, mock
}

func TestTrackWhenEnabled(t *testing.T) {
	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "anon-id-123",
	}

	client, mock := newTestClient(cfg, "1.2.3")

	client.Track(EventCommandRun, CommandProps("analyze", 1500*time.Millisecond, true))

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Event != "command_run" {
		t.Errorf("event name = %q, want %q", event.Event, "command_run")
	}
	if event.DistinctId != "anon-id-123" {
		t.Errorf("distinct_id = %q, want %q", event.DistinctId, "anon-id-123")
	}
	if event.Properties["command"] != "analyze" {
		t.Errorf("command = %v, want %q", event.Properties["command"], "analyze")
	}
	if event.Properties["duration_ms"] != int64(1500) {
		t.Errorf("duration_ms = %v, want 1500", event.Properties["duration_ms"])
	}
	if event.Properties["success"] != true {
		t.Errorf("success = %v, want true", event.Properties["success"])
	}

	// Standard properties are always attached.
	if event.Properties["os"] != runtime.GOOS {
		t.Errorf("os = %v, want %q", event.Properties["os"], runtime.GOOS)
	}
	if event.Properties["arch"] != runtime.GOARCH {
		t.Errorf("arch = %v, want %q", event.Properties["arch"], runtime.GOARCH)
	}
	if event.Properties["cli_version"] != "1.2.3" {
		t.Errorf("cli_version = %v, want %q", event.Properties["cli_version"], "1.2.3")
	}
	if event.Properties["$process_person_profile"] != false {
		t.Error("person profile processing should be disabled")
	}
}

func TestTrackWhenDisabled(t *testing.T) {
	cfg := &Config{
		Enabled:      false,
		ConsentAsked: true,
		AnonymousID:  "anon-id-123",
	}

	client, mock := newTestClient(cfg, "1.2.3")

	client.Track(EventReportArchived, ArchiveProps("overview", 1197))

	if events := mock.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events when disabled, got %d", len(events))
	}
}

func TestTrackNotInitialized(t *testing.T) {
	client := &PostHogClient{
		config:      &Config{Enabled: true},
		initialized: false,
	}

	// Must not panic.
	client.Track(EventCommandRun, nil)
}

func TestTrackNilProperties(t *testing.T) {
	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "anon-id",
	}

	client, mock := newTestClient(cfg, "1.0.0")

	client.Track(EventCommandRun, nil)

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Properties["os"] != runtime.GOOS {
		t.Error("standard properties should be set even with nil properties")
	}
}

func TestClose(t *testing.T) {
	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "anon-id",
	}

	client, mock := newTestClient(cfg, "1.0.0")

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !mock.isClosed() {
		t.Error("underlying client should be closed")
	}
}

func TestNoopClient(t *testing.T) {
	client := NewNoopClient()

	client.Track(EventMCPToolCalled, Properties{"tool": "csv-analysis"})

	if err := client.Close(); err != nil {
		t.Errorf("NoopClient.Close() error = %v", err)
	}
}

func TestNewPostHogClientEmptyAPIKey(t *testing.T) {
	client, err := NewPostHogClient(ClientConfig{
		APIKey:  "",
		Version: "1.0.0",
		Config:  &Config{Enabled: true},
	})
	if err != nil {
		t.Errorf("should not error with empty API key, got %v", err)
	}
	if client.initialized {
		t.Error("should not be initialized with empty API key")
	}

	// Track should be a no-op, not panic.
	client.Track(EventCommandRun, nil)
}

func TestTrackConcurrent(t *testing.T) {
	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "anon-id",
	}

	client, mock := newTestClient(cfg, "1.0.0")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client.Track(EventMCPToolCalled, Properties{"iteration": n})
		}(i)
	}
	wg.Wait()

	if events := mock.getEvents(); len(events) != 100 {
		t.Errorf("expected 100 events, got %d", len(events))
	}
}
