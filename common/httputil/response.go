package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the JSON shape returned by every read endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// RespondWithError writes an error envelope.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Status: StatusError, Message: message})
}

// RespondWithData writes a success envelope carrying a single record.
func RespondWithData(w http.ResponseWriter, message string, data any) {
	RespondWithJSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// RespondWithList writes a success envelope carrying a sequence and its length.
// A nil slice encodes as [].
func RespondWithList[T any](w http.ResponseWriter, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	RespondWithJSON(w, http.StatusOK, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    items,
		Count:   &count,
	})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"status":"error","message":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithText writes a plain-text body, used by the contact form flow.
func RespondWithText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}
