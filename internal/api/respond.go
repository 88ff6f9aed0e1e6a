package api

import (
	"encoding/json"
	"net/http"
)

// Stable error strings returned in the {"error": ...} payload.
const (
	errUnauthorized    = "Unauthorized"
	errMissingEmail    = "Missing email"
	errMissingPassword = "Missing password"
	errAlreadyExist    = "Already exist"
	errMissingName     = "Missing name"
	errMissingType     = "Missing type"
	errMissingData     = "Missing data"
	errInvalidData     = "Invalid data"
	errParentNotFound  = "Parent not found"
	errParentNotFolder = "Parent is not a folder"
	errNotFound        = "Not found"
	errFolderNoContent = "A folder doesn't have content"
	errInternal        = "Internal server error"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
