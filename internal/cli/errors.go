package cli

import "fmt"

// Exit codes other than the generic failure code 1.
const (
	// ExitInvalidData is returned when input records fail validation.
	ExitInvalidData = 2
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s (exit code %d)", e.Reason, e.ExitCode)
}

type constError string

func (e constError) Error() string { return string(e) }

// Command errors.
const (
	ErrOutRequired     constError = "xlsx output requires --out"
	ErrNoCompanyFiles  constError = "at least one --companies file is required"
	ErrUnknownOutput   constError = "output must be table, json, csv or xlsx"
	ErrNothingToReport constError = "no portfolio company could be scored"
)
