package httpapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/voyant/pkg/domain"
)

func TestStreamManager_BroadcastReachesSubscriber(t *testing.T) {
	sm := NewStreamManager()

	ch, cancel := sm.Subscribe("t-1")
	sm.Broadcast("t-1", "hello")

	select {
	case msg := <-ch:
		if msg != "hello" {
			t.Errorf("Expected hello, got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Broadcast never arrived")
	}

	cancel()
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) != 0 {
		t.Error("Expected subscriber map to empty after cancel")
	}
}

func TestStreamManager_OtherThreadsStayQuiet(t *testing.T) {
	sm := NewStreamManager()

	ch, cancel := sm.Subscribe("t-1")
	defer cancel()
	sm.Broadcast("t-2", "not for you")

	select {
	case msg := <-ch:
		t.Errorf("Expected nothing, got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamManager_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	sm := NewStreamManager()

	_, cancel := sm.Subscribe("t-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			sm.Broadcast("t-1", "flood")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}

func TestHooks_PublishLoopEvents(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("t-1")
	defer cancel()

	hooks := sm.Hooks()
	hooks.OnToolCall(context.Background(), &domain.ToolEvent{
		EventBase: domain.EventBase{Type: domain.EventToolCall, ThreadID: "t-1"},
		ToolName:  domain.ToolSearchFlights,
		CallID:    "c1",
	})

	select {
	case msg := <-ch:
		if !strings.Contains(msg, `"tool_name":"search_flights"`) {
			t.Errorf("Expected tool event JSON, got %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Hook event never arrived")
	}
}

func TestSubscribeEvents_RequiresThreadID(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	req := httptest.NewRequest("GET", "/api/events", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "thread_id is required") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestSubscribeEvents_StreamsBroadcasts(t *testing.T) {
	streams := NewStreamManager()
	handler := NewHandler(&stubProcessor{}, WithStreams(streams))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events?thread_id=t-1", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(w, req)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for the subscription to register
	streams.Broadcast("t-1", `{"type":"decision","round":0}`)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := w.Body.String()
	if !strings.Contains(output, "event: ping") {
		t.Error("Expected initial ping")
	}
	if !strings.Contains(output, `data: {"type":"decision","round":0}`) {
		t.Errorf("Expected broadcast in SSE output, got: %s", output)
	}
}
