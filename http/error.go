package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fwojciec/askweb"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	askweb.ECONFLICT:     http.StatusConflict,
	askweb.EINVALID:      http.StatusBadRequest,
	askweb.ENOTFOUND:     http.StatusNotFound,
	askweb.ERATELIMIT:    http.StatusTooManyRequests,
	askweb.EUNAUTHORIZED: http.StatusUnauthorized,
	askweb.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err to w, as JSON for API requests and plain text otherwise.
// Internal errors are logged and their details hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := askweb.ErrorCode(err), askweb.ErrorMessage(err)
	if code == askweb.EINTERNAL {
		s.logger().Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	status := ErrorStatusCode(code)
	if isAPI(r) {
		writeJSON(w, status, &ErrorResponse{Error: message})
		return
	}
	http.Error(w, message, status)
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
