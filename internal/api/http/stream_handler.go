package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/service"
)

const (
	streamBuffer = 64
	streamRetry  = time.Second
)

// StreamHandler relays repository subscriptions to the browser as
// Server-Sent Events.
type StreamHandler struct {
	bookingSvc service.BookingService
	chatSvc    service.ChatService
	keepAlive  time.Duration
}

func NewStreamHandler(bookingSvc service.BookingService, chatSvc service.ChatService, keepAlive time.Duration) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &StreamHandler{bookingSvc: bookingSvc, chatSvc: chatSvc, keepAlive: keepAlive}
}

type sseEvent struct {
	name string
	data any
}

// sseStream buffers changes between a subscription goroutine and the
// response writer. A change that does not fit closes overflow once.
type sseStream struct {
	events   chan sseEvent
	overflow chan struct{}
	once     sync.Once
}

func newSSEStream() *sseStream {
	return &sseStream{events: make(chan sseEvent, streamBuffer), overflow: make(chan struct{})}
}

// relay forwards a listener to the stream without ever blocking the
// subscription goroutine. Once a change is lost the stream is ended, so the
// client reconnects and receives a fresh snapshot.
func relay[T any](name string, st *sseStream) func(T) {
	return func(change T) {
		select {
		case st.events <- sseEvent{name: name, data: change}:
		default:
			st.once.Do(func() {
				logger.Warn("Stream buffer full, closing for resync", "event", name)
				close(st.overflow)
			})
		}
	}
}

func (h *StreamHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	st := newSSEStream()
	watch := h.bookingSvc.WatchTenantBookings
	if r.URL.Query().Get("as") == "owner" {
		watch = h.bookingSvc.WatchOwnerBookings
	}
	h.serve(w, r, st, func(ctx context.Context) (repository.Subscription, error) {
		return watch(ctx, sess, relay[domain.BookingChange]("booking", st))
	})
}

func (h *StreamHandler) ChatMessages(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	threadID := mux.Vars(r)["id"]
	st := newSSEStream()
	h.serve(w, r, st, func(ctx context.Context) (repository.Subscription, error) {
		return h.chatSvc.WatchMessages(ctx, sess, threadID, relay[domain.MessageChange]("message", st))
	})
}

func (h *StreamHandler) serve(w http.ResponseWriter, r *http.Request, st *sseStream, subscribe func(context.Context) (repository.Subscription, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, fmt.Errorf("streaming unsupported"))
		return
	}
	ctx := r.Context()
	sub, err := subscribe(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-st.overflow:
			fmt.Fprintf(w, "retry: %d\n\n", streamRetry.Milliseconds())
			flusher.Flush()
			return
		default:
		}
		select {
		case <-ctx.Done():
			return
		case <-st.overflow:
			continue
		case ev := <-st.events:
			if err := writeEvent(w, ev); err != nil {
				logger.DebugContext(ctx, "Stream closed", "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev sseEvent) error {
	data, err := json.Marshal(ev.data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, data)
	return err
}
