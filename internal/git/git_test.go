// Package git tests runner, repository detection and status parsing.
// Tags: git, repository, branch, vcs

package git

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	behavior := os.Getenv("TEST_MOCK_BEHAVIOR")
	switch behavior {
	case "":
		os.Exit(m.Run())
	case "succeed":
		os.Stdout.WriteString("ok\n")
		os.Exit(0)
	case "fail":
		os.Stderr.WriteString("fatal: simulated failure\n")
		os.Exit(3)
	case "hang":
		time.Sleep(30 * time.Second)
		os.Exit(0)
	default:
		os.Exit(m.Run())
	}
}

// initRepo creates a repository with one commit on branch using go-git.
func initRepo(t *testing.T, branch string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "release-train")
	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "release-train", branch)

	nested := filepath.Join(dir, "pkg", "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	branch, err = CurrentBranch(nested)
	require.NoError(t, err)
	assert.Equal(t, "release-train", branch, "repository must be found from a subdirectory")
}

func TestIsRepository(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRepository(initRepo(t, "main")))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestRepositoryRoot(t *testing.T) {
	t.Parallel()

	dir := initRepo(t, "main")
	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := RepositoryRoot(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// Note: Cannot use t.Parallel() as these tests set environment variables
// inherited by the helper process.
func TestExecRunner(t *testing.T) {
	tests := map[string]struct {
		behavior   string
		timeout    time.Duration
		wantCode   int
		wantErr    bool
		wantStdout string
		wantStderr string
	}{
		"zero exit": {
			behavior:   "succeed",
			wantCode:   0,
			wantStdout: "ok\n",
		},
		"non-zero exit is not an error": {
			behavior:   "fail",
			wantCode:   3,
			wantStderr: "fatal: simulated failure\n",
		},
		"timeout kills the process": {
			behavior: "hang",
			timeout:  200 * time.Millisecond,
			wantCode: -1,
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TEST_MOCK_BEHAVIOR", tt.behavior)

			var stdout, stderr bytes.Buffer
			runner := ExecRunner{Timeout: tt.timeout}
			code, err := runner.Run(context.Background(), "", &stdout, &stderr, os.Args[0])

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr {
				assert.ErrorIs(t, err, context.DeadlineExceeded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	code, err := ExecRunner{}.Run(context.Background(), "", nil, nil, filepath.Join(t.TempDir(), "no-such-git"))
	assert.Equal(t, -1, code)
	assert.Error(t, err)
}

func TestParseStatusOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		output string
		want   []string
	}{
		"empty output": {
			output: "",
			want:   nil,
		},
		"modified and untracked": {
			output: " M gitgpt/__init__.py\n?? notes.txt\n",
			want:   []string{"gitgpt/__init__.py", "notes.txt"},
		},
		"rename keeps new name": {
			output: "R  old.md -> CHANGELOG.md\n",
			want:   []string{"CHANGELOG.md"},
		},
		"crlf lines": {
			output: "A  pyproject.toml\r\n",
			want:   []string{"pyproject.toml"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseStatusOutput([]byte(tt.output)))
		})
	}
}
