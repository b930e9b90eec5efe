package handler

// RESPONSE HELPERS:
// These functions standardise how we read requests and send responses.
//
//   decodeJSON(w, r, &req)   → parse + validate a request body
//   writeJSON(w, status, v)  → send a JSON body
//   writeError(w, log, err)  → map a domain error to a status code
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"err": "token is incorrect"}
//
// The same shape is written by the auth gate (internal/auth), so clients
// parse one error format regardless of which layer rejected the request.

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/validation"
)

// MessageInternal is the only thing a client learns about an unexpected
// failure. Details go to the log.
const MessageInternal = "sorry, try again later"

// maxBodyBytes caps request bodies. The largest legitimate body is a post of
// 1000 characters.
const maxBodyBytes = 64 << 10

// ErrorResponse is the error body returned by all API endpoints.
type ErrorResponse struct {
	Err string `json:"err"`
}

// IDResponse is the body of every 201 Created.
type IDResponse struct {
	ID int64 `json:"id"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body is written. Once the first
// byte goes out, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers already sent; all we can do is log
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeCreated(w http.ResponseWriter, id int64) {
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// writeOK acknowledges a patch or delete: 200 with no body.
func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation   → 400
//	apperror.ErrUnauthorized → 401
//	apperror.ErrForbidden    → 403
//	apperror.ErrNotFound     → 404
//	apperror.ErrConflict     → 409
//	anything else            → 500 "sorry, try again later"
//
// errors.Is walks the whole chain, so a service error wrapped with
// fmt.Errorf("creating topic: %w", ...) still maps correctly.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusOf(err); ok {
			writeJSON(w, status, ErrorResponse{Err: appErr.Message})
			return
		}
	}

	// NEVER expose internal error details to the client. The raw message
	// might contain SQL, file paths or driver internals.
	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Err: MessageInternal})
}

func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, true
	default:
		return 0, false
	}
}

// decodeJSON reads a JSON body into dst and validates it against its
// `validate` tags. Both failures are apperror.ErrValidation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body", "request body is too large")
		}
		return apperror.ValidationFailed("body", "request body is not valid JSON")
	}

	return validation.ValidateStruct(dst)
}

// pathID parses the chi URL parameter name as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a positive integer")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return n, nil
}

// pageParams reads ?limit=&offset=. The service clamps the values.
func pageParams(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
