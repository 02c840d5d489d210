package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/relbump/internal/errors"
)

// Exit codes for the relbump CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitAborted indicates the operator declined or input ended; nothing was changed
	ExitAborted = 1

	// ExitFailure indicates a runtime failure such as a file that could not be written
	ExitFailure = 2

	// ExitInvalidArguments indicates invalid command arguments or an unacceptable version
	ExitInvalidArguments = 3

	// ExitConfiguration indicates invalid or missing configuration
	ExitConfiguration = 4

	// ExitMissingPrerequisite indicates a required file, repository or executable is missing
	ExitMissingPrerequisite = 5

	// ExitExternalCommand indicates a git step failed
	ExitExternalCommand = 6
)

// ExitError carries a process exit code without a message of its own.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return exitCodeForCategory(cliErr.Category)
	}
	return ExitFailure
}

func exitCodeForCategory(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfiguration
	case clierrors.Prerequisite:
		return ExitMissingPrerequisite
	case clierrors.External:
		return ExitExternalCommand
	default:
		return ExitFailure
	}
}
