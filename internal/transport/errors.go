package transport

import (
	"encoding/json"
	"net/http"

	"github.com/thebtf/ragd/internal/apierr"
)

// writeJSON writes a JSON response with proper error handling.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps err to an HTTP status via its apierr.Kind and writes a
// JSON error envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := apierr.KindOf(err)
	s.writeJSON(w, statusFor(kind), map[string]string{
		"error": err.Error(),
		"kind":  string(kind),
	})
}

func statusFor(kind apierr.Kind) int {
	switch kind {
	case apierr.InvalidArgument:
		return http.StatusBadRequest
	case apierr.NotInitialized:
		return http.StatusServiceUnavailable
	case apierr.CollectionMissing:
		return http.StatusNotFound
	case apierr.UpstreamUnavailable:
		return http.StatusBadGateway
	case apierr.InferenceError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
