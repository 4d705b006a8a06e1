package waitercall

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Router mounts the public, unauthenticated waiter-call endpoint.
//
//	r := chi.NewRouter()
//	r.Mount("/call", waitercall.Router(svc, logger))
//
// POST /tables/{tableID}/call responds:
//   - 201 with the request id on admission
//   - 404 for an unknown table
//   - 409 for an inactive table
//   - 429 with a Retry-After header when rate-limited
func Router(svc *Service, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Post("/tables/{tableID}/call", handleCall(svc, log))
	return r
}

type callResponse struct {
	RequestID         string `json:"request_id,omitempty"`
	StatusMarked      bool   `json:"status_marked,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
	Error             string `json:"error,omitempty"`
}

func handleCall(svc *Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, callResponse{Error: "invalid table id"})
			return
		}

		result, err := svc.Call(r.Context(), tableID)
		if err != nil {
			if errors.Is(err, ErrTableNotFound) {
				writeJSON(w, http.StatusNotFound, callResponse{Error: "table not found"})
				return
			}
			log.ErrorContext(r.Context(), "waiter call failed",
				"table_id", tableID, "error", err)
			writeJSON(w, http.StatusInternalServerError, callResponse{Error: "internal error"})
			return
		}

		switch result.Outcome {
		case OutcomeTableInactive:
			writeJSON(w, http.StatusConflict, callResponse{Error: "table is not active"})
		case OutcomeRateLimited:
			retry := Admission{RetryAfter: result.RetryAfter}.RetryAfterSeconds()
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeJSON(w, http.StatusTooManyRequests, callResponse{
				RetryAfterSeconds: retry,
				Error:             "too many requests",
			})
		default:
			writeJSON(w, http.StatusCreated, callResponse{
				RequestID:    result.RequestID.String(),
				StatusMarked: result.StatusMarked,
			})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body callResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
