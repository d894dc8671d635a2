package respond

import (
	"encoding/json"
	"net/http"
)

type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorBody{Error: message})
}

// FieldError reports a validation message tied to an input field.
func FieldError(w http.ResponseWriter, r *http.Request, code int, field, message string) {
	JSON(w, r, code, ErrorBody{Error: message, Field: field})
}

// Decode reads a JSON body into v, rejecting empty bodies and unknown fields.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
