package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"precis/backend/internal/logger"
	"precis/backend/internal/model"
)

// AllowedUploadExt is the only accepted upload extension.
const AllowedUploadExt = ".txt"

// InputPayload carries what the user submitted for one mode.
type InputPayload struct {
	Text     string    // typed mode
	FileName string    // uploaded mode
	File     io.Reader // uploaded mode; nil when no file was picked
}

// InputService turns a submission into InputText.
type InputService interface {
	// Acquire returns the text for mode. Uploaded bytes must be UTF-8 and
	// are returned unchanged; invalid bytes yield a DecodeError.
	Acquire(mode model.InputMode, payload InputPayload) (model.InputText, error)
}

type inputService struct {
	maxUploadBytes int64
}

// NewInputService creates an input service that rejects uploads larger
// than maxUploadBytes.
func NewInputService(maxUploadBytes int64) InputService {
	return &inputService{maxUploadBytes: maxUploadBytes}
}

// ParseInputMode validates a mode name.
func ParseInputMode(s string) (model.InputMode, error) {
	switch model.InputMode(strings.ToLower(strings.TrimSpace(s))) {
	case model.InputTyped:
		return model.InputTyped, nil
	case model.InputUploaded:
		return model.InputUploaded, nil
	default:
		return "", fmt.Errorf("%w: unknown input mode %q", ErrInvalid, s)
	}
}

func (s *inputService) Acquire(mode model.InputMode, payload InputPayload) (model.InputText, error) {
	switch mode {
	case model.InputTyped:
		return model.InputText{Mode: mode, Text: payload.Text}, nil
	case model.InputUploaded:
		return s.acquireUpload(payload)
	default:
		return model.InputText{}, fmt.Errorf("%w: unknown input mode %q", ErrInvalid, mode)
	}
}

func (s *inputService) acquireUpload(payload InputPayload) (model.InputText, error) {
	// No file picked: the caller reports the empty input like typed mode.
	if payload.File == nil {
		return model.InputText{Mode: model.InputUploaded}, nil
	}

	name := filepath.Base(payload.FileName)
	if !strings.EqualFold(filepath.Ext(name), AllowedUploadExt) {
		return model.InputText{}, fmt.Errorf("%w: only %s files are accepted", ErrInvalid, AllowedUploadExt)
	}

	data, err := io.ReadAll(io.LimitReader(payload.File, s.maxUploadBytes+1))
	if err != nil {
		return model.InputText{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return model.InputText{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalid, s.maxUploadBytes)
	}

	text, err := decodeUTF8(data)
	if err != nil {
		logger.Warn("upload decode failed", "module", "service", "action", "decode", "resource", "input", "result", "failed", "file", name, "bytes", len(data))
		return model.InputText{}, &DecodeError{FileName: name}
	}

	logger.Debug("upload decoded", "module", "service", "action", "decode", "resource", "input", "result", "ok", "file", name, "bytes", len(data))
	return model.InputText{Mode: model.InputUploaded, Text: text, FileName: name}, nil
}

// decodeUTF8 validates data as UTF-8 and returns it unchanged.
func decodeUTF8(data []byte) (string, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return "", fmt.Errorf("validate utf-8: %w", err)
	}
	return string(out), nil
}
