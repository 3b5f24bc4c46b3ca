package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pointsbook/internal/app/wager"
)

type WagerHandlers struct {
	svc *wager.Service
}

func NewWagerHandlers(svc *wager.Service) *WagerHandlers {
	return &WagerHandlers{svc: svc}
}

func (h *WagerHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body wager.CreateBetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Create(r.Context(), body)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func (h *WagerHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		resp, err := h.svc.Get(r.Context(), betID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) Lock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		resp, err := h.svc.Lock(r.Context(), betID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) Resolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		var body wager.ResolveBetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Resolve(r.Context(), betID, body)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricBetsResolvedTotal.Inc()
		metricPointsPaidOutTotal.Add(float64(resp.PaidOut))
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		resp, err := h.svc.Cancel(r.Context(), betID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) Archive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		resp, err := h.svc.Archive(r.Context(), betID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) PlaceStake() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		var body wager.PlaceStakeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.PlaceStake(r.Context(), betID, body)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricStakesPlacedTotal.Inc()
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func (h *WagerHandlers) StakesByBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		betID, ok := ParseBetID(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_bet_id")
			return
		}
		resp, err := h.svc.StakesByBet(r.Context(), betID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *WagerHandlers) StakesByAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.StakesByAccount(r.Context(), chi.URLParam(r, "account_id"), limit, offset)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
