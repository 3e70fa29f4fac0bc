package models

import "net/http"

// PipelineResult is the uniform outcome of a form mutation. Status carries
// the HTTP status matching the outcome and is not part of the body.
type PipelineResult struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	Redirect *string `json:"redirect"`
	Status   int     `json:"-"`
}

// Succeed returns a successful result pointing the caller at redirect.
func Succeed(message, redirect string) PipelineResult {
	return PipelineResult{Success: true, Message: message, Redirect: &redirect, Status: http.StatusCreated}
}

// Fail derives a failed result from the previous state, overwriting only the
// outcome fields.
func (r PipelineResult) Fail(message string) PipelineResult {
	r.Success = false
	r.Message = message
	r.Redirect = nil
	r.Status = http.StatusBadRequest
	return r
}
