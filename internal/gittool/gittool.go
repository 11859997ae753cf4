// Copyright 2026 The gg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gittool provides a high-level interface for interacting with
// a git subprocess.
package gittool // import "gg-scm.io/followall/internal/gittool"

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gg-scm.io/followall/internal/sigterm"
	"gg-scm.io/pkg/git"
	"golang.org/x/xerrors"
)

// Tool is an installed copy of git.
type Tool struct {
	exe string
	dir string
	env []string
	log func(context.Context, []string)

	stdout io.Writer
	stderr io.Writer
}

// Options specifies optional parameters to New.
type Options struct {
	// LogHook is a function that will be called at the start of every git
	// subprocess.
	LogHook func(ctx context.Context, args []string)

	// Env specifies the environment of the subprocess.
	// If len(Env) == 0, then no environment variables will be set.
	Env []string

	// Stdout and Stderr are hooked up to the git subprocess during
	// Stream. A nil writer is connected to the null device.
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a new tool.
func New(path string, wd string, opts *Options) (*Tool, error) {
	if !filepath.IsAbs(path) {
		return nil, xerrors.Errorf("path to git must be absolute (got %q)", path)
	}
	if wd == "" {
		return nil, xerrors.New("init git: working directory must not be blank")
	}

	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.Errorf("stat git: %w", err)
	}
	m := info.Mode()
	if m.IsDir() || m&0111 == 0 {
		return nil, xerrors.Errorf("stat git: not an executable file")
	}

	wd, err = filepath.Abs(wd)
	if err != nil {
		return nil, xerrors.Errorf("init git: resolve working directory: %w", err)
	}

	t := &Tool{
		exe: path,
		dir: wd,
	}
	if opts != nil {
		t.log = opts.LogHook
		t.env = make([]string, len(opts.Env))
		copy(t.env, opts.Env)
		t.stdout = opts.Stdout
		t.stderr = opts.Stderr
	} else {
		t.env = []string{}
	}
	return t, nil
}

// command returns a new *exec.Cmd for the given arguments. t.env is
// used directly, so it must not be appended to in place.
func (t *Tool) command(ctx context.Context, args []string) *exec.Cmd {
	if t.log != nil {
		t.log(ctx, args)
	}
	return &exec.Cmd{
		Path: t.exe,
		Args: append([]string{t.exe}, args...),
		Env:  t.env,
		Dir:  t.dir,
	}
}

// WithDir returns a new tool that is changed to use dir as its working
// directory. Any relative paths will be interpreted relative to t's
// working directory.
func (t *Tool) WithDir(dir string) *Tool {
	if filepath.IsAbs(dir) {
		dir = filepath.Clean(dir)
	} else {
		dir = filepath.Join(t.dir, dir)
	}
	t2 := new(Tool)
	*t2 = *t
	t2.dir = dir
	return t2
}

const errorOutputLimit = 1 << 20 // 1 MiB

// RunGit runs git as described by invoke. It implements git.Runner, so
// a Tool can back a *git.Git from gg-scm.io/pkg/git. A relative
// invoke.Dir is resolved against the tool's working directory, and
// invoke.Env is added to the tool's environment.
func (t *Tool) RunGit(ctx context.Context, invoke *git.Invocation) error {
	return t.run(ctx, invoke, nil)
}

// Output runs git with the given arguments and returns its stdout.
// stdin is connected to the null device. stderr is buffered and
// returned as part of the error if git fails.
func (t *Tool) Output(ctx context.Context, args ...string) (string, error) {
	stdout := new(strings.Builder)
	stderr := new(bytes.Buffer)
	err := t.run(ctx, &git.Invocation{
		Args:   args,
		Stdout: stdout,
		Stderr: &limitWriter{w: stderr, n: errorOutputLimit},
	}, stderr)
	return stdout.String(), err
}

// Stream runs git with the given arguments, feeding it stdin and
// attaching its stdout and stderr to the writers specified in the
// tool's options. Nothing is buffered, so a returned *ExitError has an
// empty Stderr.
func (t *Tool) Stream(ctx context.Context, stdin io.Reader, args ...string) error {
	return t.run(ctx, &git.Invocation{
		Args:   args,
		Stdin:  stdin,
		Stdout: t.stdout,
		Stderr: t.stderr,
	}, nil)
}

// run starts git and waits for it to exit. If captured is not nil, its
// contents are attached to the returned error.
func (t *Tool) run(ctx context.Context, invoke *git.Invocation, captured *bytes.Buffer) error {
	c := t.command(ctx, invoke.Args)
	if invoke.Dir != "" {
		c.Dir = t.WithDir(invoke.Dir).dir
	}
	if len(invoke.Env) > 0 {
		c.Env = append(t.env[:len(t.env):len(t.env)], invoke.Env...)
	}
	c.Stdin = invoke.Stdin
	c.Stdout = invoke.Stdout
	c.Stderr = invoke.Stderr
	if err := sigterm.Run(ctx, c); err != nil {
		var stderr []byte
		if captured != nil {
			stderr = captured.Bytes()
		}
		return commandError(invoke.Args, err, stderr)
	}
	return nil
}

// ExitError is returned when a git subprocess runs but exits
// unsuccessfully.
type ExitError struct {
	// Args is the argument list passed to git, not including the
	// program name.
	Args []string
	// Code is the process's exit code, or -1 if it was terminated by
	// a signal.
	Code int
	// Stderr is the captured error output, if any, minus a trailing
	// newline.
	Stderr []byte

	err error
}

// CommandLine returns the failed command as it would be typed, starting
// with "git".
func (e *ExitError) CommandLine() []string {
	return append([]string{"git"}, e.Args...)
}

func (e *ExitError) Error() string {
	prefix := errorSubject(e.Args)
	if len(e.Stderr) == 0 {
		return fmt.Sprintf("%s: %v", prefix, e.err)
	}
	if bytes.IndexByte(e.Stderr, '\n') == -1 {
		// Collapse into single line.
		return fmt.Sprintf("%s: %s", prefix, e.Stderr)
	}
	return fmt.Sprintf("%s:\n%s", prefix, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code of the git subprocess that caused e,
// if e (or an error it wraps) is an *ExitError.
func ExitCode(e error) (code int, ok bool) {
	var exitErr *ExitError
	if !errors.As(e, &exitErr) {
		return 0, false
	}
	return exitErr.Code, true
}

// commandError returns a new error with the information from an
// unsuccessful run of a subprocess.
func commandError(args []string, runError error, stderr []byte) error {
	stderr = bytes.TrimSuffix(stderr, []byte{'\n'})
	var exitErr *exec.ExitError
	if errors.As(runError, &exitErr) {
		return &ExitError{
			Args:   append([]string(nil), args...),
			Code:   exitErr.ExitCode(),
			Stderr: append([]byte(nil), stderr...),
			err:    runError,
		}
	}
	prefix := errorSubject(args)
	if len(stderr) == 0 {
		return fmt.Errorf("%s: %w", prefix, runError)
	}
	return fmt.Errorf("%s: %w\n%s", prefix, runError, stderr)
}

func errorSubject(args []string) string {
	for i, a := range args {
		if !strings.HasPrefix(a, "-") && (i == 0 || args[i-1] != "-c") {
			return "git " + a
		}
	}
	return "git"
}

type limitWriter struct {
	w io.Writer
	n int64
}

func (lw *limitWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > lw.n {
		n, err := lw.w.Write(p[:int(lw.n)])
		lw.n -= int64(n)
		if err != nil {
			return n, err
		}
		return n, xerrors.New("buffer full")
	}
	n, err := lw.w.Write(p)
	lw.n -= int64(n)
	return n, err
}
