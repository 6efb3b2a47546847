package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/services"
	"github.com/nationbuilder/nationbuilder/internal/utils"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorPaymentRequired:
		return http.StatusPaymentRequired
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps service errors onto HTTP statuses. Anything else is logged
// and reported as an opaque internal error.
func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	locale := middleware.LocaleFromContext(r.Context())
	if se, ok := services.AsServiceError(err); ok {
		writeJSON(w, statusFor(se.Code), errorBody{
			Error:   string(se.Code),
			Message: se.Message,
			Title:   utils.T(locale, "error."+string(se.Code)),
		})
		return
	}
	logger.Error().Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:   "internal",
		Message: "internal error",
		Title:   utils.T(locale, "error.internal"),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewInvalidError("request body required")
		}
		return services.NewInvalidError("invalid json: " + err.Error())
	}
	return nil
}
