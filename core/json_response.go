// Package core defines the JSON response envelope and the HTTP error
// taxonomy shared by every handler.
package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Meta carries the request outcome alongside the payload. The HTTP status
// code is mirrored into Code so clients reading only the body see the same
// result as clients reading the status line.
type Meta struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status"`
}

// Envelope is the standard response shape: {meta:{message,code,status},data}.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// JSON writes a success envelope with HTTP 200.
func JSON(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusOK, Envelope{
		Meta: Meta{Message: message, Code: http.StatusOK, Status: "success"},
		Data: data,
	})
}

// JSONError writes an error envelope. HTTPError values map to their status
// code and key; anything else becomes a generic 500 so internal detail never
// reaches the client.
func JSONError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = httpErr.Key
	}

	writeEnvelope(w, status, Envelope{
		Meta: Meta{Message: message, Code: status, Status: "error"},
		Data: nil,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
