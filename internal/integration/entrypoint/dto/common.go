// Package dto defines data transfer objects for API requests and responses.
package dto

import "github.com/ledgerline/backend/internal/domain/valueobject"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// BatchFailureResponse represents one failed row or group of a batch operation.
type BatchFailureResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ToBatchFailureResponses converts domain batch failures to DTOs.
func ToBatchFailureResponses(failures []valueobject.BatchFailure) []BatchFailureResponse {
	responses := make([]BatchFailureResponse, len(failures))
	for i, failure := range failures {
		responses[i] = BatchFailureResponse{
			ID:     failure.ID,
			Reason: failure.Reason,
		}
	}
	return responses
}
