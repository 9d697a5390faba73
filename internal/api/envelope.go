package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope. Bump only on
// breaking envelope changes.
const EnvelopeVersion = 1

// APIEnvelope wraps successful responses.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	V       int  `json:"v" doc:"Envelope version"`
	Success bool `json:"success" doc:"Whether the request succeeded"`
	Data    any  `json:"data,omitempty" doc:"Response payload"`
}

// APIErrorEnvelope wraps error responses carrying a structured error.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
	Error   string `json:"error,omitempty" doc:"Error message for simple errors"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered on the huma config so handlers never build envelopes themselves.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" && apiErr.Details == nil {
			return &APIErrorEnvelope{
				V:       EnvelopeVersion,
				Success: false,
				Error:   apiErr.Message,
			}, nil
		}
		return &APIErrorEnvelope{
			V:       EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &APIEnvelope{
		V:       EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
