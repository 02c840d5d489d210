package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the relbump CLI.
// These templates ensure consistent, actionable error messages.

// VersionFileNotConfigured creates an error when no version file is set.
func VersionFileNotConfigured() *CLIError {
	return NewConfigError(
		"no version file configured",
		"Add 'version_file: path/to/__init__.py' to .relbump.yml",
		"Or pass --version-file path/to/__init__.py",
		"Or set RELBUMP_VERSION_FILE",
	)
}

// VersionFileNotFound creates an error for a missing version file.
func VersionFileNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("version file not found: %s", path),
		"Check the version_file setting in .relbump.yml",
		"Run relbump from the repository root",
	)
}

// VersionAssignmentMissing creates an error when the version file has no
// assignment of the configured variable.
func VersionAssignmentMissing(path, variable string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no %s assignment found in %s", variable, path),
		fmt.Sprintf("Add a line like: %s = \"0.1.0\"", variable),
		"Or set version_variable in .relbump.yml to the name your project uses",
	)
}

// AmbiguousManifest creates an error when the manifest section holds more
// than one version line.
func AmbiguousManifest(path, section string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("[%s] in %s has more than one version line", section, path),
		"Remove the duplicate version key from the manifest",
		"Or set manifest_file: \"\" to stop updating the manifest",
	)
}

// InvalidVersion creates an error for a version that is not MAJOR.MINOR.PATCH.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %q", provided),
		"relbump --new-version MAJOR.MINOR.PATCH",
		"Versions are three dot-separated non-negative integers, e.g. 1.4.0",
		"Prefixes and suffixes such as v1.4.0 or 1.4.0-rc1 are not accepted",
	)
}

// UnchangedVersion creates an error when the new version equals the current one.
func UnchangedVersion(current string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("%s is already the current version", current),
		"Pass a different version with --new-version",
		"Run 'relbump current' to see the suggested next version",
	)
}

// NotARepository creates an error when the working directory is not inside git.
func NotARepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s is not inside a git repository", dir),
		"Run relbump from your project checkout",
		"Or initialize one with: git init",
	)
}

// GitNotFound creates an error when the git executable cannot be run.
func GitNotFound(gitCmd string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("git executable not found: %s", gitCmd),
		"Install git and make sure it is on your PATH",
		"Or set git_command in .relbump.yml",
	)
}

// ReleaseStepFailed creates an error for a failed git step. completed lists
// the commands that already succeeded and remaining the ones left to run by
// hand; the edited files are kept in place.
func ReleaseStepFailed(cause error, completed, remaining []string) *CLIError {
	e := NewExternalError(cause.Error())
	e.Err = cause
	if len(completed) > 0 {
		e.Details = append(e.Details, "Completed: "+strings.Join(completed, "; "))
	}
	e.Details = append(e.Details, "Edited files were kept; nothing was rolled back.")
	if len(remaining) > 0 {
		e.Remediation = append(e.Remediation, "Fix the problem, then finish the release by hand:")
		for _, cmd := range remaining {
			e.Remediation = append(e.Remediation, "  "+cmd)
		}
	} else {
		e.Remediation = append(e.Remediation, "Fix the problem and rerun the failed command")
	}
	return e
}

// EditFailed creates an error when a file could not be rewritten.
func EditFailed(cause error) *CLIError {
	e := NewRuntimeError(cause.Error(),
		"Check file permissions and free disk space",
		"Review any partial changes with: git diff",
	)
	e.Err = cause
	return e
}

// ConfigInvalid creates an error for an invalid configuration file or value.
func ConfigInvalid(cause error) *CLIError {
	e := NewConfigError(cause.Error(),
		"Run 'relbump config keys' to list valid keys and types",
		"Run 'relbump config show' to see the effective configuration",
	)
	e.Err = cause
	return e
}
