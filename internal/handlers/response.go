package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodapp/internal/models"
	"foodapp/internal/validation"
)

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, message string, payload interface{}) {
	resp := models.APIResponse{Success: true, Message: message}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to encode response")
			return
		}
		resp.Data = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// respondWithValidation writes a 400 for form errors and reports whether err
// was one.
func respondWithValidation(w http.ResponseWriter, err error) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	respondWithError(w, http.StatusBadRequest, "validation_failed", errs.Error())
	return true
}
