package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

type fakeSource struct {
	snap  model.WatchlistSnapshot
	focus string
}

func (f fakeSource) Watchlist() model.WatchlistSnapshot { return f.snap }
func (f fakeSource) Focus() (string, bool)              { return f.focus, f.focus != "" }

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	return n
}

func TestSend_PostsToChat(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", got)
	}
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestNotifier(srv).SendWithRetry(ctx, "x", 3)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSendWithRetry_RetriesUntilAccepted(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTestNotifier(srv)
	n.Backoff = time.Millisecond
	if err := n.SendWithRetry(context.Background(), "x", 3); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSend_RejectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv).Send(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected rejection error, got %v", err)
	}
}

func TestFormatBreakerAlert(t *testing.T) {
	at := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	open := FormatBreakerAlert("yahoo", "closed", "open", at)
	if !strings.Contains(open, "outage") || !strings.Contains(open, "closed → open") {
		t.Errorf("unexpected open alert: %s", open)
	}
	closed := FormatBreakerAlert("yahoo", "half-open", "closed", at)
	if !strings.Contains(closed, "recovered") {
		t.Errorf("unexpected recovery alert: %s", closed)
	}
}

func TestStatusCommands(t *testing.T) {
	src := fakeSource{
		snap: model.WatchlistSnapshot{
			Quotes: []model.Quote{{Symbol: "AAPL", Price: 190.12, Change: 1.5, ChangePercent: 0.79}},
			AsOf:   time.Date(2024, 3, 4, 15, 4, 5, 0, time.UTC),
		},
		focus: "TSLA",
	}
	h := StatusCommands(src, func() string { return "closed" })

	status := h("/status@MarketPulseBot")
	if !strings.Contains(status, "1 quotes as of 15:04:05") || !strings.Contains(status, "Chart focus: TSLA") ||
		!strings.Contains(status, "Provider breaker: closed") {
		t.Errorf("unexpected status: %s", status)
	}
	if wl := h("/watchlist"); !strings.Contains(wl, "AAPL") || !strings.Contains(wl, "+0.79%") {
		t.Errorf("unexpected watchlist: %s", wl)
	}
	if h("hello") != "" {
		t.Error("unknown text should not get a reply")
	}
	if got := FormatWatchlist(model.WatchlistSnapshot{}); got != "No quotes yet." {
		t.Errorf("empty watchlist: %q", got)
	}
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var replies []string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			calls++
			if calls == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":"/status"}}]}`))
				return
			}
			if r.URL.Query().Get("offset") != "8" {
				t.Errorf("offset = %s, want 8", r.URL.Query().Get("offset"))
			}
			cancel()
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies = append(replies, p["text"])
		}
	}))
	defer srv.Close()

	n := newTestNotifier(srv)
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, StatusCommands(fakeSource{}, func() string { return "open" }))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || !strings.Contains(replies[0], "Provider breaker: open") {
		t.Errorf("replies = %v", replies)
	}
}
