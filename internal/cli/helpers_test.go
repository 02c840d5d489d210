package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/progress"
	"github.com/ariel-frischer/relbump/internal/testutil"
	gogit "github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

var releaseDate = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

const (
	testMarker    = "\"\"\"gitgpt.\"\"\"\n__version__ = \"0.1.0\"\n"
	testManifest  = "[project]\nname = \"gitgpt\"\nversion = \"0.1.0\"\n"
	testChangelog = "# Changelog\n"
	testConfig    = "version_file: gitgpt/__init__.py\n"
)

// project is a throwaway repository the commands run in.
type project struct {
	dir string
	git *testutil.FakeGit
}

// newProject creates a git repository with a marker, manifest, changelog
// and .relbump.yml, makes it the working directory and replaces the
// command environment with a fake git and a fixed clock.
func newProject(t *testing.T) *project {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	p := &project{dir: dir, git: &testutil.FakeGit{}}
	p.write(t, "gitgpt/__init__.py", testMarker)
	p.write(t, "pyproject.toml", testManifest)
	p.write(t, "CHANGELOG.md", testChangelog)
	p.write(t, ".relbump.yml", testConfig)

	isolateEnvironment(t)
	t.Chdir(dir)

	orig := env
	env = environment{
		runner:       func(time.Duration) git.CommandRunner { return p.git },
		lookPath:     func(file string) (string, error) { return "/usr/bin/" + file, nil },
		now:          func() time.Time { return releaseDate },
		capabilities: progress.PlainCapabilities,
	}
	t.Cleanup(func() { env = orig })
	return p
}

// isolateEnvironment keeps the user's config and RELBUMP_* variables out of a test.
func isolateEnvironment(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "RELBUMP_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func (p *project) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(p.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (p *project) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	require.NoError(t, err)
	return string(data)
}

// run executes rootCmd with args and input, returning combined output.
// Flags are reset first because cobra keeps values between executions.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		printError(rootCmd, err)
	}
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
