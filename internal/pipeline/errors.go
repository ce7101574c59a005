package pipeline

import (
	"errors"
	"fmt"

	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/openaiapi"
)

// FailureKind coarsely classifies a pipeline failure for callers that map
// errors to exit codes or HTTP statuses.
type FailureKind string

const (
	// FailureValidation is caller-fixable input: empty or oversized
	// transcripts, unknown artifact kinds.
	FailureValidation FailureKind = "validation"
	// FailureTransient is an upstream outage or timeout that a later retry
	// of the whole run may clear.
	FailureTransient FailureKind = "transient"
	// FailureContract is a model response that parsed but broke its shape
	// or length contract.
	FailureContract FailureKind = "contract"
	// FailureInternal is everything else, storage failures included.
	FailureInternal FailureKind = "internal"
)

// SaveError means generation succeeded but the record could not be
// persisted. The run still fails as a whole.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save history record: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Classify maps a Run error onto a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	var promptTooLong *generate.PromptTooLongError
	if errors.Is(err, generate.ErrEmptyTranscript) ||
		errors.Is(err, ErrNoKinds) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.As(err, &promptTooLong) {
		return FailureValidation
	}

	var (
		timeout    *generate.GenerationTimeoutError
		malformed  *generate.MalformedResponseError
		contract   *generate.ContractViolationError
		connection *openaiapi.ConnectionError
	)
	switch {
	case errors.As(err, &timeout), errors.As(err, &connection):
		return FailureTransient
	case errors.As(err, &malformed), errors.As(err, &contract):
		return FailureContract
	}

	if openaiapi.IsRateLimit(err) || openaiapi.IsTimeout(err) {
		return FailureTransient
	}
	return FailureInternal
}
