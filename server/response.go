package server

import (
	"encoding/json"
	"net/http"

	"github.com/JiscSD/ed318-validator/zone"

	"github.com/sirupsen/logrus"
)

// Report is the body of a /validate response.
type Report struct {
	ID       string                        `json:"id"`
	Mode     zone.Mode                     `json:"mode"`
	Valid    bool                          `json:"valid"`
	Errors   []*zone.ValidationErrorDetail `json:"errors"`
	Warnings []*zone.ValidationErrorDetail `json:"warnings"`
	Document zone.Object                   `json:"document,omitempty"`
}

type ErrorResponse struct {
	Status   int    `json:"-"`
	ErrorMsg string `json:"error_msg"`
}

func writeJSON(logger logrus.FieldLogger, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Warn("Failed to write response")
	}
}

func writeError(logger logrus.FieldLogger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, &ErrorResponse{Status: status, ErrorMsg: msg})
}
