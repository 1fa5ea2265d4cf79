// Package json wraps encoding/json with the request/response helpers the
// handlers use. Error payloads always have the shape {"error": "..."}.
package json

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20 // 1 MB

func Read(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	return nil
}

func Write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError sends an error response with the given status. The message is
// what the client sees; err is kept for the caller to log.
func WriteError(w http.ResponseWriter, status int, err error, message string) {
	if message == "" && err != nil {
		message = err.Error()
	}
	Write(w, status, errorResponse{Error: message})
}

func WriteValidationError(w http.ResponseWriter, err error) {
	msg := "invalid request"
	if err != nil {
		msg = err.Error()
	}
	Write(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func WriteBadRequestError(w http.ResponseWriter, message string) {
	Write(w, http.StatusBadRequest, errorResponse{Error: message})
}

// WriteInternalError never leaks internal error details to clients; the
// caller is expected to log err itself.
func WriteInternalError(w http.ResponseWriter, err error) {
	Write(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
