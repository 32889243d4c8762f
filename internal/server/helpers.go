package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/failures"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", consts.MIMEJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Pl.E("Failed to encode JSON response: %v", err)
	}
}

// writeError maps err onto a status and JSON body, returning what was sent.
func writeError(w http.ResponseWriter, err error) (status int, kind string) {
	k := failures.KindOf(err)
	status = failures.Status(k)

	var body errorBody
	var fe *failures.Error
	if !errors.As(err, &fe) {
		body = errorBody{Error: http.StatusText(status), Details: err.Error()}
	} else {
		body.Error = fe.Message
		switch k {
		case failures.HumanVerificationRequired:
			body.Message = consts.VerificationHint
		case failures.UpstreamUnavailable:
			if fe.Err != nil {
				body.Details = fe.Err.Error()
			}
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Pl.E("Request failed (%d): %v", status, err)
	} else {
		logger.Pl.W("Request rejected (%d): %v", status, err)
	}
	writeJSON(w, status, body)
	return status, string(k)
}
