package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ClassifyRequest is the JSON body for classifying a message.
type ClassifyRequest struct {
	Message string `json:"message"`
}

// ClassificationResponse is the JSON representation of a classification.
type ClassificationResponse struct {
	Category        string `json:"category"`
	Priority        string `json:"priority"`
	Sentiment       string `json:"sentiment"`
	SuggestedAction string `json:"suggestedAction"`
}

// PutCredentialRequest is the JSON body for storing a credential.
type PutCredentialRequest struct {
	Value string `json:"value"`
}

// CredentialStatusResponse describes the authoritative credential without
// revealing it.
type CredentialStatusResponse struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source"`
}

// HealthResponse is the JSON body returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toClassificationResponse(c model.Classification) ClassificationResponse {
	return ClassificationResponse{
		Category:        c.Category,
		Priority:        c.Priority,
		Sentiment:       c.Sentiment,
		SuggestedAction: c.SuggestedAction,
	}
}
