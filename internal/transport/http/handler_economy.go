package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pointsbook/internal/app/economy"
)

type EconomyHandlers struct {
	svc *economy.Service
}

func NewEconomyHandlers(svc *economy.Service) *EconomyHandlers {
	return &EconomyHandlers{svc: svc}
}

func (h *EconomyHandlers) Ensure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Ensure(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		status := http.StatusOK
		if resp.Created {
			status = http.StatusCreated
		}
		WriteJSON(w, status, resp)
	}
}

func (h *EconomyHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *EconomyHandlers) ClaimDaily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.ClaimDaily(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *EconomyHandlers) ClaimBailout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.ClaimBailout(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *EconomyHandlers) Transfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body economy.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Transfer(r.Context(), chi.URLParam(r, "account_id"), body)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricTransfersTotal.Inc()
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *EconomyHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := ParsePagination(r)
		var afterID int64
		if v := r.URL.Query().Get("after_id"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				afterID = n
			}
		}
		descending := r.URL.Query().Get("order") == "desc"
		resp, err := h.svc.History(r.Context(), chi.URLParam(r, "account_id"),
			r.URL.Query().Get("kind"), limit, afterID, descending)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *EconomyHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.Leaderboard(r.Context(), limit, offset)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
