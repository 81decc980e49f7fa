package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishPageEvent(PageCreated, PageEvent{Project: "p", Title: "A", URL: "https://scrapbox.io/p/A"})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: page.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"title":"A"`) || !strings.Contains(s, `"url":"https://scrapbox.io/p/A"`) {
			t.Errorf("missing data in %q", s)
		}
		if !strings.HasPrefix(s, "id: 1\n") {
			t.Errorf("missing event id in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishPageEvent_ProjectThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishPageEvent(PageCreated, PageEvent{Project: "p", Title: "A"})
	// Within the throttle window: no second project.changed.
	b.PublishPageEvent(PageUpdated, PageEvent{Project: "p", Title: "B"})

	// Drain and count events.
	time.Sleep(50 * time.Millisecond)
	projectCount := 0
	pageCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "project.changed") {
				projectCount++
			} else {
				pageCount++
			}
		default:
			break loop
		}
	}

	if pageCount != 2 {
		t.Errorf("page events = %d, want 2", pageCount)
	}
	if projectCount != 1 {
		t.Errorf("project events = %d, want 1 (throttled)", projectCount)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100*time.Millisecond, WithKeepAlive(0))
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishPageEvent(PageDeleted, PageEvent{Project: "p", Title: "X"})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: page.deleted") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: "test", Data: map[string]string{}})
	b.PublishPageEvent(PageUpdated, PageEvent{Title: "X"})
}

func TestSSEHandlerKeepAlive(t *testing.T) {
	b := NewBroker(time.Second, WithKeepAlive(10*time.Millisecond))
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	b.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), ": keep-alive") {
		t.Errorf("no keep-alive comment in %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}
