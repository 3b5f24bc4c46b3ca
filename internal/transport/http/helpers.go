package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pointsbook/internal/app/economy"
	"pointsbook/internal/app/wager"
	"pointsbook/internal/store"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

// WriteServiceError maps service and storage sentinels onto HTTP statuses.
// The error code in the body is the sentinel's own message string.
func WriteServiceError(w http.ResponseWriter, err error) {
	WriteHTTPError(w, statusForError(err), codeForError(err))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrInvalidOption),
		errors.Is(err, economy.ErrInvalidRequest),
		errors.Is(err, wager.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrBetNotOpen),
		errors.Is(err, store.ErrNotLocked),
		errors.Is(err, store.ErrAlreadyResolved),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrAlreadyClaimed),
		errors.Is(err, store.ErrNotEligible),
		errors.Is(err, store.ErrDuplicateStake):
		return http.StatusConflict
	case errors.Is(err, store.ErrConcurrentConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeForError(err error) string {
	for _, sentinel := range []error{
		store.ErrNotFound,
		store.ErrInsufficientFunds,
		store.ErrInvalidAmount,
		store.ErrInvalidOption,
		store.ErrBetNotOpen,
		store.ErrNotLocked,
		store.ErrAlreadyResolved,
		store.ErrInvalidTransition,
		store.ErrAlreadyClaimed,
		store.ErrNotEligible,
		store.ErrDuplicateStake,
		store.ErrConcurrentConflict,
		economy.ErrInvalidRequest,
		wager.ErrInvalidRequest,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal_error"
}

func ParsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func ParseBetID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bet_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
