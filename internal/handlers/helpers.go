package handlers

import (
	"encoding/json"
	"net/http"
)

// Messages reused across handlers. Login failures deliberately share one
// message so responses never reveal whether the email exists.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgNotAuthorized      = "Not authorized, token failed"
	MsgServerError        = "Server error"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}
