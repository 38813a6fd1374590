package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a generate action blocked before any network call
	ErrValidation = errors.New("missing inputs")

	// ErrRequestFailed marks a failed upload or generation call
	ErrRequestFailed = errors.New("request failed")
)

// Step names the network call that failed
type Step string

const (
	StepUpload   Step = "upload"
	StepGenerate Step = "generate"
)

// ValidationError lists the inputs missing at submission time
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing inputs: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RequestError is a transport or server failure of one of the two calls.
// StatusCode is zero when no response was received.
type RequestError struct {
	Step       Step
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status code: %d, body: %s", e.Step, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
