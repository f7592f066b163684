package engine

import "errors"

var (
	// ErrUnsupportedFormat means the decoder rejected the uploaded bytes.
	// This is the usual "invalid file" error surfaced to callers.
	ErrUnsupportedFormat = errors.New("engine: unsupported or corrupt input")
	// ErrEmptyUpload means the upload contained no bytes.
	ErrEmptyUpload = errors.New("engine: empty upload")
	// ErrEncoderFailure means the external encoder exited non-zero or
	// produced no output.
	ErrEncoderFailure = errors.New("engine: encoder failed")
	// ErrTimeout means the watchdog killed a hung encoder.
	ErrTimeout = errors.New("engine: encoder timed out")
)
