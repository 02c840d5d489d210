// Package testutil provides a scripted git runner shared by package tests.
package testutil

import (
	"context"
	"io"
	"sync"
)

// GitCall is one recorded invocation of FakeGit.
type GitCall struct {
	Dir  string
	Name string
	Args []string
}

// FakeGit answers git invocations by subcommand key and records every call.
// The key is the first argument, except that "push ... --tags" is keyed
// "push-tags" so the two pushes can be scripted apart. Nothing is written
// to stderr unless Stderr holds an entry for the key.
type FakeGit struct {
	// Status is written to stdout for "status" calls without a Stdout entry.
	Status string
	Codes  map[string]int
	Errs   map[string]error
	Stdout map[string]string
	Stderr map[string]string

	mu    sync.Mutex
	calls []GitCall
}

// Key returns the scripting key of a git argument list.
func Key(args []string) string {
	if len(args) == 0 {
		return ""
	}
	if args[0] == "push" && args[len(args)-1] == "--tags" {
		return "push-tags"
	}
	return args[0]
}

// Run implements git.CommandRunner.
func (f *FakeGit) Run(_ context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, GitCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})

	key := Key(args)
	out, ok := f.Stdout[key]
	if !ok && key == "status" {
		out = f.Status
	}
	if out != "" && stdout != nil {
		io.WriteString(stdout, out)
	}
	if msg, ok := f.Stderr[key]; ok && stderr != nil {
		io.WriteString(stderr, msg)
	}
	if err, ok := f.Errs[key]; ok {
		return -1, err
	}
	return f.Codes[key], nil
}

// Calls returns a copy of the recorded invocations.
func (f *FakeGit) Calls() []GitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GitCall(nil), f.calls...)
}

// ArgLists returns the argument list of every recorded call.
func (f *FakeGit) ArgLists() [][]string {
	calls := f.Calls()
	out := make([][]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Args)
	}
	return out
}

// Mutating returns the argument lists of calls other than status queries.
func (f *FakeGit) Mutating() [][]string {
	var out [][]string
	for _, args := range f.ArgLists() {
		if Key(args) != "status" {
			out = append(out, args)
		}
	}
	return out
}
