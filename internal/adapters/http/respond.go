package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clubconnect/internal/adapters/http/middleware"
	"clubconnect/internal/domain/account"
	"clubconnect/internal/domain/capacity"
	"clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message  string              `json:"message"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Conflict *conflictBody       `json:"conflict,omitempty"`
}

type conflictBody struct {
	SlotID           string `json:"slotId"`
	DayOfWeek        string `json:"dayOfWeek"`
	TimeRange        string `json:"timeRange"`
	CurrentEnrolled  int    `json:"currentEnrolled"`
	ProposedCapacity int    `json:"proposedCapacity"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// strictDecode decodes a JSON body, rejecting unknown fields and trailing data.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Message: message})
}

// writeError maps domain errors to status codes. Anything unrecognised is an
// internal error: logged in full, reported to the client generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *club.ValidationError
		conflict *capacity.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "validation failed", Errors: verr.ByField()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{
			Message: conflict.Error(),
			Conflict: &conflictBody{
				SlotID:           conflict.SlotID,
				DayOfWeek:        string(conflict.DayOfWeek),
				TimeRange:        conflict.TimeRange,
				CurrentEnrolled:  conflict.CurrentEnrolled,
				ProposedCapacity: conflict.ProposedCapacity,
			},
		})
	case errors.Is(err, club.ErrClubNotFound), errors.Is(err, club.ErrSlotNotFound),
		errors.Is(err, enrollment.ErrEnrollmentNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Message: err.Error()})
	case errors.Is(err, enrollment.ErrSlotFull), errors.Is(err, enrollment.ErrDuplicateEnrollment):
		writeJSON(w, http.StatusConflict, errorBody{Message: err.Error()})
	case errors.Is(err, account.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: err.Error()})
	default:
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.RequestID(r), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "internal server error"})
	}
}
