package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"goalhk/internal/usecase/assistant"
	"goalhk/internal/usecase/crm"
	"goalhk/internal/usecase/jobboard"
	"goalhk/internal/usecase/marketplace"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, assistant.ErrEmptyInput),
		errors.Is(err, crm.ErrEmptyMessage),
		errors.Is(err, marketplace.ErrInvalidRating),
		errors.Is(err, marketplace.ErrInvalidPaymentMethod),
		errors.Is(err, jobboard.ErrInvalidBid),
		errors.Is(err, jobboard.ErrInvalidJob):
		return http.StatusBadRequest
	case errors.Is(err, marketplace.ErrTaskNotFound),
		errors.Is(err, marketplace.ErrModeNotFound),
		errors.Is(err, marketplace.ErrProviderNotFound),
		errors.Is(err, marketplace.ErrBidNotFound),
		errors.Is(err, jobboard.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, marketplace.ErrInvalidTransition),
		errors.Is(err, marketplace.ErrPaymentInProgress):
		return http.StatusConflict
	case errors.Is(err, jobboard.ErrBiddingNotAllowed),
		errors.Is(err, marketplace.ErrNoQuote),
		errors.Is(err, crm.ErrEmptyDraft):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := middleware.GetReqID(r.Context())
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", r.URL.Path, "request_id", reqID, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg, RequestID: reqID})
}
