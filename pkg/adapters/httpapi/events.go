package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/voyant/pkg/domain"
)

// subscriberBuffer bounds how far a slow SSE client can fall behind before
// Broadcast starts dropping its messages.
const subscriberBuffer = 10

// StreamManager fans lifecycle events out to SSE subscribers, one channel set
// per thread.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // thread ID -> set of channels
}

// NewStreamManager creates an empty broadcaster.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers interest in one thread's events. The returned cancel
// func must be called when the subscriber goes away; calling it twice is safe.
func (sm *StreamManager) Subscribe(threadID string) (chan string, func()) {
	ch := make(chan string, subscriberBuffer)

	sm.mu.Lock()
	set := sm.subscribers[threadID]
	if set == nil {
		set = make(map[chan<- string]struct{})
		sm.subscribers[threadID] = set
	}
	set[ch] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { sm.drop(threadID, ch) })
	}
}

// drop removes one subscriber and prunes the thread's bucket once it empties.
func (sm *StreamManager) drop(threadID string, ch chan string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	set, ok := sm.subscribers[threadID]
	if !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(sm.subscribers, threadID)
	}
}

// Broadcast delivers one serialized event to every subscriber of the thread.
// Slow clients drop messages rather than stall the loop.
func (sm *StreamManager) Broadcast(threadID, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[threadID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Hooks returns lifecycle hooks that publish every loop event to this
// broadcaster. Feed them to the agent at construction.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, ev *domain.DecisionEvent) {
			sm.publish(ev.ThreadID, ev)
		},
		OnToolCall: func(_ context.Context, ev *domain.ToolEvent) {
			sm.publish(ev.ThreadID, ev)
		},
		OnToolReturn: func(_ context.Context, ev *domain.ToolEvent) {
			sm.publish(ev.ThreadID, ev)
		},
		OnRoundEnd: func(_ context.Context, ev *domain.RoundEvent) {
			sm.publish(ev.ThreadID, ev)
		},
	}
}

func (sm *StreamManager) publish(threadID string, ev any) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	sm.Broadcast(threadID, string(data))
}

// SubscribeEvents handles GET /api/events. It streams the named thread's
// lifecycle events as server-sent events until the client disconnects.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported by this connection", http.StatusInternalServerError)
		return
	}

	threadID := r.URL.Query().Get("thread_id")
	if threadID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "thread_id is required"})
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(threadID)
	defer cancel()

	s.logger.Info("SSE subscriber connected", "thread_id", threadID)
	fmt.Fprint(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE subscriber disconnected", "thread_id", threadID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
