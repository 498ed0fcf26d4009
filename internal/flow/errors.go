package flow

import (
	"context"
	"errors"
)

// Failure classes. Flow errors wrap exactly one of these, plus the cause.
var (
	ErrInvalidInput  = errors.New("flow: invalid input")
	ErrInvalidOutput = errors.New("flow: invalid output from model")
	ErrOracle        = errors.New("flow: model call failed")

	ErrTranscriptionFailed = errors.New("flow: transcription failed to produce an output")
	ErrTranslationFailed   = errors.New("flow: translation failed or returned no text")
	ErrSpeechFailed        = errors.New("flow: speech generation failed to return audio media")
)

// Class returns a low-cardinality label for err, used for metrics and logs.
func Class(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTranscriptionFailed):
		return "transcription_failed"
	case errors.Is(err, ErrTranslationFailed):
		return "translation_failed"
	case errors.Is(err, ErrSpeechFailed):
		return "speech_failed"
	case errors.Is(err, ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrOracle):
		return "oracle"
	default:
		return "error"
	}
}
