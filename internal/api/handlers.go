package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/starford/cosense-mcp/internal/journal"
)

// ReadyFunc checks a dependency. A nil ReadyFunc is always ready.
type ReadyFunc func(ctx context.Context) error

const readyTimeout = 5 * time.Second

type healthHandler struct {
	ready ReadyFunc
}

// Live handles GET /health/live.
func (h *healthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Ready handles GET /health/ready.
func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

type journalHandler struct {
	journal journal.Journal
}

// List handles GET /journal?limit=&title=.
func (h *journalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := journal.Query{Title: r.URL.Query().Get("title")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > journal.MaxLimit {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be an integer between 1 and "+strconv.Itoa(journal.MaxLimit)))
			return
		}
		q.Limit = limit
	}

	entries, err := h.journal.Recent(r.Context(), q)
	if err != nil {
		slog.Error("journal query failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, journalResponse{Entries: entries, Count: len(entries)})
}
