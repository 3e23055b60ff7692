package service

import (
	"errors"
)

var (
	ErrInvalid    = errors.New("invalid")
	ErrEmptyInput = errors.New("empty input")
	ErrDecode     = errors.New("decode failure")
	ErrModelLoad  = errors.New("model load failure")
	ErrGeneration = errors.New("generation failure")
)

// ModelLoadError is returned when the model or tokenizer could not be
// resolved. It matches ErrModelLoad.
type ModelLoadError struct {
	Backend string
	ModelID string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return "error loading model " + e.ModelID + ": " + e.Err.Error()
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

func (e *ModelLoadError) Is(target error) bool {
	return target == ErrModelLoad
}

// GenerationError wraps a failed generation call. It matches ErrGeneration.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "error during summarization: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// DecodeError reports an upload that is not valid UTF-8. It matches ErrDecode.
type DecodeError struct {
	FileName string
}

func (e *DecodeError) Error() string {
	if e.FileName == "" {
		return "input is not valid UTF-8"
	}
	return e.FileName + " is not valid UTF-8 text"
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
