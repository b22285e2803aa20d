/*
PURPOSE:
  Error taxonomy shared by the reader, the deriver and the pipeline.

REQUIREMENTS:
  Implementation-discovered:
  - Callers need errors.Is on the cause and the file and run it came from.

ARCHITECTURE INTEGRATION:
  - Used by: internal/ingest, internal/engine, internal/derive, internal/pipeline

ERROR HANDLING:
  - ErrParse is recoverable (file skipped); everything else halts the build.

IMPLEMENTATION RULES:
  - Wrap with %w so errors.Is/As keep working.

USAGE:
  return &ingest.RecordError{File: name, RunNum: 2, Err: ingest.ErrZeroTTFT}

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/derive/flatten.go

MAINTENANCE:
  - None.
*/

package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a file-level JSON failure. Recovered: the file is skipped.
	ErrParse = errors.New("malformed JSON")
	// ErrMissingField marks a required field absent under every accepted key.
	ErrMissingField = errors.New("missing required field")
	// ErrZeroTTFT marks a run whose prefill speed would divide by zero.
	ErrZeroTTFT = errors.New("ttft is zero")
	// ErrNamingConvention marks an evaluation file not named <model>-<benchmark>-<quant>.json.
	ErrNamingConvention = errors.New("filename violates <model>-<benchmark>-<quant>.json convention")
)

// RecordError identifies the file (and run, when known) a fatal error came from.
type RecordError struct {
	File   string
	RunNum int // 1-indexed, 0 when the error is not tied to a run
	Err    error
}

func (e *RecordError) Error() string {
	if e.RunNum > 0 {
		return fmt.Sprintf("%s run %d: %v", e.File, e.RunNum, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// MissingField reports path as absent.
func MissingField(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}
