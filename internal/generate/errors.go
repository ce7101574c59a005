package generate

import (
	"errors"
	"fmt"
)

// ErrEmptyTranscript is raised before any API call when the transcript is
// blank after trimming.
var ErrEmptyTranscript = errors.New("transcript is empty")

// PromptTooLongError is raised before any API call when the transcript
// exceeds the configured character limit.
type PromptTooLongError struct {
	Length int
	Limit  int
}

func (e *PromptTooLongError) Error() string {
	return fmt.Sprintf("transcript too long: %d characters (max: %d)", e.Length, e.Limit)
}

// MalformedResponseError means the model answered but the response could not
// be parsed into the required shape.
type MalformedResponseError struct {
	Kind   Kind
	Detail string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Detail)
}

// ContractViolationError means the model answered but the artifact broke its
// length contract. The artifact is never returned alongside this error.
type ContractViolationError struct {
	Kind   Kind
	Length int
	Min    int
	Max    int
}

func (e *ContractViolationError) Error() string {
	if e.Length < e.Min {
		return fmt.Sprintf("%s too short: %d characters (min: %d)", e.Kind, e.Length, e.Min)
	}
	return fmt.Sprintf("%s too long: %d characters (max: %d)", e.Kind, e.Length, e.Max)
}

// GenerationError wraps a non-retryable or retry-exhausted gateway failure.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GenerationTimeoutError wraps a timeout-classified gateway failure.
type GenerationTimeoutError struct {
	Kind Kind
	Err  error
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("generate %s: request timed out: %v", e.Kind, e.Err)
}

func (e *GenerationTimeoutError) Unwrap() error {
	return e.Err
}
