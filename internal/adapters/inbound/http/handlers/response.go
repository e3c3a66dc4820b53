package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carlosduarte/devices-api/internal/domain/model"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"

	codeBusinessError  = "BUSINESS_ERROR"
	codeDataError      = "DATA_ERROR"
	codeInvalidRequest = "INVALID_REQUEST"
	codeSystemError    = "SYSTEM_ERROR"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSONResponse(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// NotFound replies to requests for routes outside the API surface.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeErrorResponse(w, http.StatusBadRequest, codeInvalidRequest, "unknown route")
}

// MethodNotAllowed replies to known routes hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeErrorResponse(w, http.StatusBadRequest, codeInvalidRequest, "method not allowed")
}

// writeDomainError translates a domain error into the wire error contract.
// Business rule violations and malformed request tokens map to 400, missing
// lookups to 404, anything else to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case model.IsBusinessRuleViolation(err):
		writeErrorResponse(w, http.StatusBadRequest, codeBusinessError, err.Error())
	case model.IsNotFound(err):
		writeErrorResponse(w, http.StatusNotFound, codeDataError, err.Error())
	case model.IsInvalidRequest(err):
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, codeSystemError, err.Error())
	}
}
