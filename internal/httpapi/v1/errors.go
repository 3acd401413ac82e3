package v1

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/tinoosan/fintrack/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
    Error string `json:"error"`
    Code  string `json:"code,omitempty"`
}

// listResponse wraps collections so the payload can grow fields later.
type listResponse[T any] struct {
    Items []T `json:"items"`
}

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "bad_request") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// writeServiceErr maps a service error onto a status and a stable code.
// Editor rejections are 422; anything unrecognized is logged and reported as 500.
func (s *Server) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
    code := errs.Code(err)
    switch {
    case errors.Is(err, errs.ErrNotFound):
        notFound(w)
    case errors.Is(err, errs.ErrNameExists), errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrDemoActive):
        writeErr(w, http.StatusConflict, err.Error(), code)
    case errors.Is(err, errs.ErrInvalidBackup), errors.Is(err, errs.ErrInvalid):
        writeErr(w, http.StatusBadRequest, err.Error(), code)
    case errors.Is(err, errs.ErrPINMismatch):
        writeErr(w, http.StatusForbidden, err.Error(), code)
    case errors.Is(err, errs.ErrLockedOut):
        writeErr(w, http.StatusTooManyRequests, err.Error(), code)
    case code != "":
        writeErr(w, http.StatusUnprocessableEntity, err.Error(), code)
    default:
        s.log.Error("request failed", "path", r.URL.Path, "err", err)
        writeErr(w, http.StatusInternalServerError, "internal_error", "internal_error")
    }
}
