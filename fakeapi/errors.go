package fakeapi

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindValidationFailed ErrorKind = "ValidationFailed"
	KindServerError      ErrorKind = "ServerError"
	KindBadRequest       ErrorKind = "BadRequest"
	KindRequestTooLarge  ErrorKind = "RequestTooLarge"
)

const (
	msgServerError = "Server failed to fulfill the request."
	msgNotFound    = "The resource can't be found."
	msgBadRequest  = "The request body could not be parsed."
	msgTooLarge    = "The request body is too large."
)

// ErrorDetail is one entry of details.errors. The zero value encodes as {}.
type ErrorDetail struct {
	Path     []string `json:"path,omitempty"`
	Expected []string `json:"expected,omitempty"`
	Max      int      `json:"max,omitempty"`
}

type APIError struct {
	Sys     ErrorSys     `json:"sys"`
	Message string       `json:"message"`
	Details ErrorDetails `json:"details"`
}

type ErrorSys struct {
	ID ErrorKind `json:"id"`
}

type ErrorDetails struct {
	Errors []ErrorDetail `json:"errors"`
}

func newAPIError(kind ErrorKind, message string, detail ErrorDetail) APIError {
	return APIError{
		Sys:     ErrorSys{ID: kind},
		Message: message,
		Details: ErrorDetails{Errors: []ErrorDetail{detail}},
	}
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, newAPIError(KindNotFound, msgNotFound, ErrorDetail{}))
}

func (s *Server) writeServerError(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusInternalServerError, newAPIError(KindServerError, msgServerError, ErrorDetail{}))
}

func (s *Server) writeValidationError(w http.ResponseWriter, detail ErrorDetail) {
	s.writeJSON(w, http.StatusUnprocessableEntity, newAPIError(KindValidationFailed, msgServerError, detail))
}

// writeBodyError answers a request whose body readBody refused.
func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.logger.Debug("request body too large", "limit", tooLarge.Limit)
		s.writeJSON(w, http.StatusRequestEntityTooLarge, newAPIError(KindRequestTooLarge, msgTooLarge, ErrorDetail{}))
		return
	}

	s.logger.Debug("could not read body", "err", err)
	s.writeJSON(w, http.StatusBadRequest, newAPIError(KindBadRequest, msgBadRequest, ErrorDetail{}))
}
