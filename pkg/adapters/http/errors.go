package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/gensyn/pkg/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusFor maps an engine error kind to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrDuplicateEdge),
		errors.Is(err, domain.ErrCycleDetected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrParseError), errors.Is(err, domain.ErrSchemaError),
		errors.Is(err, domain.ErrPortMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUnknownType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func kindName(err error) string {
	if k := domain.KindOf(err); k != nil {
		return k.Error()
	}
	if errors.Is(err, domain.ErrPatchNotFound) {
		return domain.ErrPatchNotFound.Error()
	}
	return "internal"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	s.logger.Warn("request failed", "op", op, "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kindName(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
