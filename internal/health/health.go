// Package health runs the release readiness checks behind 'relbump doctor'.
// Each check inspects one prerequisite of a bump (git executable, repository,
// version file, manifest, changelog) without modifying anything.
package health

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/version"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a passed check whose message deserves attention.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	GitCommand string
	// LookPath resolves GitCommand (default exec.LookPath).
	LookPath      func(file string) (string, error)
	Dir           string
	Store         *version.Store
	Section       string
	ChangelogPath string
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	add(CheckGitCLI(opts.GitCommand, opts.LookPath))
	add(CheckRepository(opts.Dir))
	if opts.Store == nil {
		add(CheckResult{Name: "Version file", Message: "no version file configured"})
		return report
	}
	add(CheckVersionFile(opts.Store))
	add(CheckManifest(opts.Store, opts.Section))
	add(CheckChangelog(opts.ChangelogPath))
	return report
}

// CheckGitCLI checks that the git executable used for release steps exists.
func CheckGitCLI(gitCmd string, lookPath func(string) (string, error)) CheckResult {
	path, err := lookPath(gitCmd)
	if err != nil {
		return CheckResult{
			Name:    "Git CLI",
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH", gitCmd),
		}
	}
	return CheckResult{Name: "Git CLI", Passed: true, Message: path}
}

// CheckRepository checks that dir is inside a git repository and reports
// the checked out branch.
func CheckRepository(dir string) CheckResult {
	if !git.IsRepository(dir) {
		return CheckResult{Name: "Repository", Message: "not inside a git repository"}
	}
	root, err := git.RepositoryRoot(dir)
	if err != nil {
		return CheckResult{Name: "Repository", Message: err.Error()}
	}
	msg := root
	if branch, err := git.CurrentBranch(dir); err == nil && branch != "" {
		msg = fmt.Sprintf("%s (branch %s)", root, branch)
	}
	return CheckResult{Name: "Repository", Passed: true, Message: msg}
}

// CheckVersionFile checks that the version file exists and carries a
// parsable version assignment.
func CheckVersionFile(store *version.Store) CheckResult {
	path := store.MarkerPath()
	current, err := store.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CheckResult{Name: "Version file", Message: fmt.Sprintf("%s not found", path)}
	case err != nil:
		return CheckResult{Name: "Version file", Message: err.Error()}
	}
	if err := store.Preflight(); err != nil && errors.Is(err, version.ErrVersionNotFound) {
		return CheckResult{Name: "Version file", Message: fmt.Sprintf("%s has no version assignment", path)}
	}
	return CheckResult{Name: "Version file", Passed: true, Message: fmt.Sprintf("%s (%s)", current, path)}
}

// CheckManifest checks that the manifest, when present, can be updated and
// agrees with the version file.
func CheckManifest(store *version.Store, section string) CheckResult {
	path := store.ManifestPath()
	if !store.HasManifest() {
		if path == "" {
			return CheckResult{Name: "Manifest", Passed: true, Message: "not configured"}
		}
		return CheckResult{Name: "Manifest", Passed: true, Message: fmt.Sprintf("%s not present, skipped", path)}
	}
	if err := store.Preflight(); err != nil && errors.Is(err, version.ErrAmbiguousManifestVersion) {
		return CheckResult{Name: "Manifest", Message: fmt.Sprintf("[%s] in %s has more than one version line", section, path)}
	}
	declared, err := store.ManifestVersion()
	if err != nil {
		return CheckResult{Name: "Manifest", Message: err.Error()}
	}
	if declared == "" {
		return CheckResult{
			Name:    "Manifest",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%s has no [%s] version, it will not be updated", path, section),
		}
	}
	if current, err := store.Read(); err == nil && current.String() != declared {
		return CheckResult{
			Name:    "Manifest",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%s declares %s, version file has %s", path, declared, current),
		}
	}
	return CheckResult{Name: "Manifest", Passed: true, Message: fmt.Sprintf("%s (%s [%s])", declared, path, section)}
}

// CheckChangelog reports whether the changelog exists. A missing changelog
// passes because the first release creates it.
func CheckChangelog(path string) CheckResult {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CheckResult{Name: "Changelog", Passed: true, Message: fmt.Sprintf("%s will be created", path)}
	case err != nil:
		return CheckResult{Name: "Changelog", Message: err.Error()}
	case info.IsDir():
		return CheckResult{Name: "Changelog", Message: fmt.Sprintf("%s is a directory", path)}
	}
	return CheckResult{Name: "Changelog", Passed: true, Message: path}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case !check.Passed:
			mark = "✗"
		case check.Warning:
			mark = "!"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
