package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pointsbook/internal/app/economy"
	"pointsbook/internal/store"
)

type AdminHandlers struct {
	store *store.Store
	svc   *economy.Service
}

func NewAdminHandlers(st *store.Store, svc *economy.Service) *AdminHandlers {
	return &AdminHandlers{store: st, svc: svc}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := ParsePagination(r)
		var from, to *time.Time
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				from = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				to = &t
			}
		}
		var afterID int64
		if v := r.URL.Query().Get("after_id"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				afterID = n
			}
		}
		resp, err := h.svc.GlobalLedger(r.Context(), r.URL.Query().Get("account_id"),
			r.URL.Query().Get("kind"), from, to, limit, afterID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AdminHandlers) Adjust() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body economy.AdjustRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Adjust(r.Context(), body)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
