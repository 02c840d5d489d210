package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/relbump/internal/history"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notes answers the version prompt with the suggestion and enters one
// bullet per category.
const notes = "\nfirst feature\n\nreworded help\n\nfix crash\n\n"

func TestBump_AcceptSuggestion(t *testing.T) {
	p := newProject(t)

	out, err := run(t, notes)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Current version: 0.1.0")
	assert.Contains(t, out, "Released v0.1.1")
	assert.Equal(t, "\"\"\"gitgpt.\"\"\"\n__version__ = \"0.1.1\"\n", p.read(t, "gitgpt/__init__.py"))
	assert.Contains(t, p.read(t, "pyproject.toml"), "version = \"0.1.1\"")
	assert.Equal(t, "# Changelog\n\n"+
		"## [0.1.1] - 2026-03-14\n"+
		"### Added\n- first feature\n"+
		"### Changed\n- reworded help\n"+
		"### Fixed\n- fix crash\n", p.read(t, "CHANGELOG.md"))

	want := [][]string{
		{"add", "--", "gitgpt/__init__.py", "pyproject.toml", "CHANGELOG.md"},
		{"commit", "-m", "v0.1.1 release"},
		{"tag", "v0.1.1"},
		{"push"},
		{"push", "--tags"},
	}
	if diff := cmp.Diff(want, p.git.Mutating()); diff != "" {
		t.Errorf("git calls mismatch (-want +got):\n%s", diff)
	}

	hist, err := history.LoadHistory(".relbump")
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	entry := hist.Entries[0]
	assert.Equal(t, history.StatusReleased, entry.Status)
	assert.Equal(t, "0.1.0", entry.OldVersion)
	assert.Equal(t, "0.1.1", entry.NewVersion)
	assert.Equal(t, 3, entry.Changes)
	assert.Equal(t, 0, entry.ExitCode)
	assert.Len(t, entry.Steps, 5)
	assert.NotEmpty(t, entry.RunID)

	logData, err := os.ReadFile(filepath.Join(".relbump", "relbump.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"msg":"workflow finished"`)
	assert.Contains(t, string(logData), `"run_id":"`+entry.RunID+`"`)
	assert.FileExists(t, filepath.Join(".relbump", ".gitignore"))
}

func TestBump_NonInteractiveNoPush(t *testing.T) {
	p := newProject(t)
	p.git.Status = " M README.md\n"

	out, err := run(t, "\n\n\n", "--new-version", "1.0.0", "--yes", "--no-push")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Continuing anyway (--yes)")
	assert.Contains(t, p.read(t, "gitgpt/__init__.py"), `__version__ = "1.0.0"`)
	want := [][]string{
		{"add", "--", "gitgpt/__init__.py", "pyproject.toml", "CHANGELOG.md"},
		{"commit", "-m", "v1.0.0 release"},
		{"tag", "v1.0.0"},
	}
	if diff := cmp.Diff(want, p.git.Mutating()); diff != "" {
		t.Errorf("git calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBump_ConfigPushFalseAndRemote(t *testing.T) {
	p := newProject(t)
	p.write(t, ".relbump.yml", testConfig+"remote: upstream\n")

	_, err := run(t, notes)
	require.NoError(t, err)

	calls := p.git.Mutating()
	require.Len(t, calls, 5)
	assert.Equal(t, []string{"push", "upstream", "HEAD"}, calls[3])
	assert.Equal(t, []string{"push", "upstream", "--tags"}, calls[4])

	p2 := newProject(t)
	p2.write(t, ".relbump.yml", testConfig+"push: false\n")
	_, err = run(t, notes)
	require.NoError(t, err)
	assert.Len(t, p2.git.Mutating(), 3)
}

func TestBump_Aborts(t *testing.T) {
	tests := map[string]struct {
		args       []string
		input      string
		status     string
		wantCode   int
		wantOutput string
		wantReason string
	}{
		"invalid version flag": {
			args:       []string{"--new-version", "v1.0"},
			wantCode:   ExitInvalidArguments,
			wantOutput: `invalid version: "v1.0"`,
			wantReason: "invalid version",
		},
		"unchanged version flag": {
			args:       []string{"--new-version", "0.1.0"},
			wantCode:   ExitInvalidArguments,
			wantOutput: "0.1.0 is already the current version",
			wantReason: "unchanged version",
		},
		"quit at prompt": {
			input:      "q\n",
			wantCode:   ExitAborted,
			wantOutput: "Aborted: operator declined; nothing was changed",
			wantReason: "operator declined",
		},
		"declined on dirty tree": {
			input:      "\nn\n",
			status:     " M README.md\n?? notes.txt\n",
			wantCode:   ExitAborted,
			wantOutput: "Continue anyway? [y/N]",
			wantReason: "operator declined",
		},
		"input closed": {
			input:      "",
			wantCode:   ExitAborted,
			wantOutput: "Aborted: input closed",
			wantReason: "input closed",
		},
		"input closed during changes": {
			input:      "\nfirst feature\n",
			wantCode:   ExitAborted,
			wantOutput: "Aborted: input closed",
			wantReason: "input closed",
		},
		"bad entries then input closed": {
			input:      "1.2\nabc\n",
			wantCode:   ExitInvalidArguments,
			wantOutput: "no valid version entered",
			wantReason: "invalid version",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t)
			p.git.Status = tt.status

			out, err := run(t, tt.input, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, out, tt.wantOutput)

			assert.Equal(t, testMarker, p.read(t, "gitgpt/__init__.py"))
			assert.Equal(t, testManifest, p.read(t, "pyproject.toml"))
			assert.Equal(t, testChangelog, p.read(t, "CHANGELOG.md"))
			assert.Empty(t, p.git.Mutating())

			hist, err := history.LoadHistory(".relbump")
			require.NoError(t, err)
			require.Len(t, hist.Entries, 1)
			assert.Equal(t, history.StatusAborted, hist.Entries[0].Status)
			assert.Equal(t, tt.wantReason, hist.Entries[0].Reason)
			assert.Equal(t, tt.wantCode, hist.Entries[0].ExitCode)
		})
	}
}

func TestBump_PushFailureKeepsEdits(t *testing.T) {
	p := newProject(t)
	p.git.Codes = map[string]int{"push": 1}
	p.git.Stderr = map[string]string{"push": "fatal: push rejected\n"}

	out, err := run(t, notes)
	require.Error(t, err)
	assert.Equal(t, ExitExternalCommand, ExitCode(err))

	assert.Contains(t, out, "git push failed: exit status 1, detail: fatal: push rejected")
	assert.Contains(t, out, `Completed: git add -- gitgpt/__init__.py pyproject.toml CHANGELOG.md; git commit -m "v0.1.1 release"; git tag v0.1.1`)
	assert.Contains(t, out, "nothing was rolled back")
	assert.Contains(t, out, "git push --tags")
	assert.Contains(t, p.read(t, "gitgpt/__init__.py"), `"0.1.1"`)
	assert.Len(t, p.git.Mutating(), 4)

	hist, err := history.LoadHistory(".relbump")
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	entry := hist.Entries[0]
	assert.Equal(t, history.StatusFailed, entry.Status)
	assert.Equal(t, ExitExternalCommand, entry.ExitCode)
	assert.Len(t, entry.Steps, 4)
	assert.Contains(t, entry.Error, "git push failed")
}

func TestBump_DryRun(t *testing.T) {
	p := newProject(t)

	out, err := run(t, notes, "--dry-run")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Dry run: 0.1.0 -> 0.1.1, nothing written")
	assert.Contains(t, out, `git commit -m "v0.1.1 release"`)
	assert.Equal(t, testMarker, p.read(t, "gitgpt/__init__.py"))
	assert.Equal(t, testChangelog, p.read(t, "CHANGELOG.md"))
	assert.Empty(t, p.git.Mutating())

	hist, err := history.LoadHistory(".relbump")
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, history.StatusDryRun, hist.Entries[0].Status)
}

func TestBump_FileFlags(t *testing.T) {
	p := newProject(t)
	p.write(t, ".relbump.yml", "")
	p.write(t, "src/__init__.py", "__version__ = '2.0.0'\n")

	_, err := run(t, notes,
		"--version-file", "src/__init__.py",
		"--manifest", "",
		"--changelog", "CHANGES.md")
	require.NoError(t, err)

	assert.Equal(t, "__version__ = '2.0.1'\n", p.read(t, "src/__init__.py"))
	assert.Equal(t, testManifest, p.read(t, "pyproject.toml"))
	assert.Contains(t, p.read(t, "CHANGES.md"), "# Changelog\n\n## [2.0.1] - 2026-03-14\n")
	assert.Equal(t, []string{"add", "--", "src/__init__.py", "CHANGES.md"}, p.git.Mutating()[0])
}

func TestBump_Prerequisites(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, p *project)
		wantCode int
		wantMsg  string
	}{
		"no version file configured": {
			setup:    func(t *testing.T, p *project) { p.write(t, ".relbump.yml", "") },
			wantCode: ExitConfiguration,
			wantMsg:  "no version file configured",
		},
		"version file missing": {
			setup:    func(t *testing.T, p *project) { require.NoError(t, os.Remove("gitgpt/__init__.py")) },
			wantCode: ExitMissingPrerequisite,
			wantMsg:  "version file not found: gitgpt/__init__.py",
		},
		"not a repository": {
			setup:    func(t *testing.T, p *project) { require.NoError(t, os.RemoveAll(".git")) },
			wantCode: ExitMissingPrerequisite,
			wantMsg:  "is not inside a git repository",
		},
		"git not installed": {
			setup: func(t *testing.T, p *project) {
				env.lookPath = func(string) (string, error) { return "", os.ErrNotExist }
			},
			wantCode: ExitMissingPrerequisite,
			wantMsg:  "git executable not found: git",
		},
		"no version assignment": {
			setup:    func(t *testing.T, p *project) { p.write(t, "gitgpt/__init__.py", "VERSION = '1'\n") },
			wantCode: ExitMissingPrerequisite,
			wantMsg:  "no __version__ assignment found in gitgpt/__init__.py",
		},
		"ambiguous manifest": {
			setup: func(t *testing.T, p *project) {
				p.write(t, "pyproject.toml", "[project]\nversion = \"0.1.0\"\nversion = \"0.1.0\"\n")
			},
			wantCode: ExitMissingPrerequisite,
			wantMsg:  "[project] in pyproject.toml has more than one version line",
		},
		"unknown config key": {
			setup:    func(t *testing.T, p *project) { p.write(t, ".relbump.yml", testConfig+"pushh: true\n") },
			wantCode: ExitConfiguration,
			wantMsg:  "unknown key",
		},
		"unknown flag": {
			setup:    func(t *testing.T, p *project) {},
			wantCode: ExitInvalidArguments,
			wantMsg:  "unknown flag",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t)
			tt.setup(t, p)

			var args []string
			if name == "unknown flag" {
				args = []string{"--bogus"}
			}
			out, err := run(t, notes, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err), out)
			assert.Contains(t, out, tt.wantMsg)
			assert.Empty(t, p.git.Mutating())
		})
	}
}
