package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sagarc03/dirindex"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errorCodes = map[int]string{
	http.StatusBadRequest:          "invalid_path",
	http.StatusNotFound:            "not_found",
	http.StatusMethodNotAllowed:    "method_not_allowed",
	http.StatusInternalServerError: "internal_error",
}

// WriteHTML writes a complete HTML response. The body is omitted for HEAD.
func WriteHTML(w http.ResponseWriter, r *http.Request, code int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

// WriteError writes an error response: JSON when the client asks for it,
// otherwise the default HTML error page.
func WriteError(w http.ResponseWriter, r *http.Request, code int) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		errCode, ok := errorCodes[code]
		if !ok {
			errCode = "error"
		}
		if err := WriteJSON(w, code, ErrorResponse{
			Error:   errCode,
			Message: http.StatusText(code),
		}); err != nil {
			slog.Error("failed to encode error response", "error", err)
		}
		return
	}

	WriteHTML(w, r, code, errorPage(code))
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dirindex.ErrInvalidPath) {
		WriteError(w, r, http.StatusBadRequest)
		return
	}

	if errors.Is(err, dirindex.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound)
		return
	}

	slog.Error("request error", "path", r.URL.EscapedPath(), "error", err)

	// Default internal error
	WriteError(w, r, http.StatusInternalServerError)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
