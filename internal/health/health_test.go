package health

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/relbump/internal/version"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func found(file string) (string, error) { return "/usr/bin/" + file, nil }

func missing(string) (string, error) { return "", errors.New("not found") }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckGitCLI(t *testing.T) {
	t.Parallel()

	ok := CheckGitCLI("git", found)
	assert.True(t, ok.Passed)
	assert.Equal(t, "/usr/bin/git", ok.Message)

	bad := CheckGitCLI("git-custom", missing)
	assert.False(t, bad.Passed)
	assert.Equal(t, "git-custom not found in PATH", bad.Message)
}

func TestCheckRepository(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	_, err := gogit.PlainInit(repo, false)
	require.NoError(t, err)

	result := CheckRepository(repo)
	assert.True(t, result.Passed)
	assert.Contains(t, result.Message, filepath.Base(repo))

	result = CheckRepository(t.TempDir())
	assert.False(t, result.Passed)
	assert.Equal(t, "not inside a git repository", result.Message)
}

func TestCheckVersionFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content    *string
		wantPassed bool
		wantMsg    string
	}{
		"valid assignment": {
			content:    ptr("__version__ = \"1.2.3\"\n"),
			wantPassed: true,
			wantMsg:    "1.2.3",
		},
		"missing file": {
			wantMsg: "not found",
		},
		"no assignment": {
			content: ptr("VERSION = '1'\n"),
			wantMsg: "has no version assignment",
		},
		"malformed value": {
			content: ptr("__version__ = \"1.2\"\n"),
			wantMsg: "invalid version",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			path := filepath.Join(dir, "pkg", "__init__.py")
			if tt.content != nil {
				writeFile(t, dir, "pkg/__init__.py", *tt.content)
			}

			result := CheckVersionFile(version.NewStore(version.StoreOptions{MarkerPath: path}))
			assert.Equal(t, tt.wantPassed, result.Passed, result.Message)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCheckManifest(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		manifest    *string
		noManifest  bool
		wantPassed  bool
		wantWarning bool
		wantMsg     string
	}{
		"matching version": {
			manifest:   ptr("[project]\nversion = \"1.2.3\"\n"),
			wantPassed: true,
			wantMsg:    "1.2.3 (",
		},
		"differing version": {
			manifest:    ptr("[project]\nversion = \"1.0.0\"\n"),
			wantPassed:  true,
			wantWarning: true,
			wantMsg:     "declares 1.0.0, version file has 1.2.3",
		},
		"no version line": {
			manifest:    ptr("[project]\nname = \"x\"\n"),
			wantPassed:  true,
			wantWarning: true,
			wantMsg:     "has no [project] version",
		},
		"ambiguous section": {
			manifest: ptr("[project]\nversion = \"1.2.3\"\nversion = \"1.2.3\"\n"),
			wantMsg:  "more than one version line",
		},
		"absent file": {
			wantPassed: true,
			wantMsg:    "not present, skipped",
		},
		"not configured": {
			noManifest: true,
			wantPassed: true,
			wantMsg:    "not configured",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			marker := writeFile(t, dir, "__init__.py", "__version__ = \"1.2.3\"\n")
			manifest := filepath.Join(dir, "pyproject.toml")
			if tt.manifest != nil {
				writeFile(t, dir, "pyproject.toml", *tt.manifest)
			}
			if tt.noManifest {
				manifest = ""
			}

			store := version.NewStore(version.StoreOptions{MarkerPath: marker, ManifestPath: manifest})
			result := CheckManifest(store, "project")
			assert.Equal(t, tt.wantPassed, result.Passed, result.Message)
			assert.Equal(t, tt.wantWarning, result.Warning)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCheckChangelog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := writeFile(t, dir, "CHANGELOG.md", "# Changelog\n")

	assert.True(t, CheckChangelog(existing).Passed)

	absent := CheckChangelog(filepath.Join(dir, "NEW.md"))
	assert.True(t, absent.Passed)
	assert.Contains(t, absent.Message, "will be created")

	isDir := CheckChangelog(dir)
	assert.False(t, isDir.Passed)
	assert.Contains(t, isDir.Message, "is a directory")
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	marker := writeFile(t, dir, "__init__.py", "__version__ = \"0.1.0\"\n")

	store := version.NewStore(version.StoreOptions{MarkerPath: marker})
	report := RunHealthChecks(Options{
		GitCommand:    "git",
		LookPath:      found,
		Dir:           dir,
		Store:         store,
		Section:       "project",
		ChangelogPath: filepath.Join(dir, "CHANGELOG.md"),
	})
	assert.True(t, report.Passed)

	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Git CLI", "Repository", "Version file", "Manifest", "Changelog"}, names)

	report = RunHealthChecks(Options{GitCommand: "git", LookPath: missing, Dir: dir})
	assert.False(t, report.Passed)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "no version file configured", report.Checks[2].Message)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "Git CLI", Passed: true, Message: "/usr/bin/git"},
			{Name: "Manifest", Passed: true, Warning: true, Message: "pyproject.toml declares 1.0.0"},
			{Name: "Version file", Passed: false, Message: "pkg/__init__.py not found"},
		},
	}

	lines := strings.Split(strings.TrimSuffix(FormatReport(report), "\n"), "\n")
	assert.Equal(t, []string{
		"✓ Git CLI: /usr/bin/git",
		"! Manifest: pyproject.toml declares 1.0.0",
		"✗ Version file: pkg/__init__.py not found",
	}, lines)
}

func ptr(s string) *string { return &s }
