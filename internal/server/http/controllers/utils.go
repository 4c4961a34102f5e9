package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
)

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt64 reads a non-negative integer query parameter. Missing values
// yield def.
func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cmdlog.ErrOutOfRange),
		errors.Is(err, commandsvc.ErrBadFilter),
		errors.Is(err, commandsvc.ErrUnterminated),
		errors.Is(err, cmdlog.ErrUnterminated):
		return http.StatusBadRequest
	case errors.Is(err, cmdlog.ErrCommandTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
