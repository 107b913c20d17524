package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrGateDecision signals that a validator gate could not reach a decision.
	// Unlike search failures this is fatal for the request.
	ErrGateDecision = errors.New("gate decision failed")
	// ErrAnswerGeneration signals that the runtime agent failed after passing the gates.
	ErrAnswerGeneration = errors.New("answer generation failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals an LLM completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrUnparsableVerdict signals that the model returned output that does not
	// decode into the expected structured shape.
	ErrUnparsableVerdict = errors.New("unparsable model verdict")
)
