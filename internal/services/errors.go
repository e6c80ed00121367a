package services

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/careerscout/careerscout/internal/logger"
)

// Source-scoped failures. Each one aborts a single source for the current
// cycle and never its siblings; only ledger-commit and configuration
// failures abort a whole cycle.

// OracleError means plan inference failed or returned an unusable locator
// set. Nothing is persisted for the source.
type OracleError struct {
	Source string
	Err    error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle failed for %v: %v", e.Source, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// FetchError means the career page could not be rendered in time.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %v: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means a learned plan no longer matches the page. The plan
// is demoted before this error is reported.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %v: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DispatchError means the push service rejected a whole send. Delivery is
// at-least-once: the ledger write is not rolled back on this error.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func errorLogType(err error) string {
	var oracleErr *OracleError
	var fetchErr *FetchError
	var extractionErr *ExtractionError

	switch {
	case errors.As(err, &oracleErr):
		return logger.ErrorTypeOracle
	case errors.As(err, &fetchErr):
		return logger.ErrorTypeFetcher
	case errors.As(err, &extractionErr):
		return logger.ErrorTypeExtraction
	default:
		return logger.ErrorTypeDb
	}
}
