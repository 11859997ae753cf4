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

// git-log-followall shows the history of several files or directories,
// following each of them through renames and copies, in a single
// git log.
//
// When installed on PATH it can be run as "git log-followall".
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"gg-scm.io/followall/internal/escape"
	"gg-scm.io/followall/internal/flag"
	"gg-scm.io/followall/internal/follow"
	"gg-scm.io/followall/internal/gittool"
	"gg-scm.io/followall/internal/terminal"
	"gg-scm.io/pkg/git"
	"github.com/fatih/color"
)

const programName = "git-log-followall"

func main() {
	pctx, err := osProcessContext()
	if err != nil {
		fmt.Fprintln(os.Stderr, programName+":", err)
		os.Exit(1)
	}
	err = run(context.Background(), pctx, os.Args[1:])
	if err != nil {
		var exit exitCode
		if errors.As(err, &exit) {
			os.Exit(int(exit))
		}
		fmt.Fprintln(os.Stderr, err)
		if isUsage(err) {
			os.Exit(64)
		}
		os.Exit(1)
	}
}

// gitLogValueOptions lists git log options that may take their value
// as the following argument.
var gitLogValueOptions = []string{
	"n", "max-count",
	"skip",
	"since", "after",
	"until", "before",
	"author", "committer",
	"grep",
	"S", "G", "O",
	"date",
	"decorate-refs", "decorate-refs-exclude",
	"glob", "exclude",
}

func run(ctx context.Context, pctx *processContext, args []string) error {
	const synopsis = programName + " [options] [--] PATHSPEC [...]"
	const description = "Show a single git log for several paths, following each " +
		"one through renames and copies.\n\n" +
		"Options not listed below are passed to the final git log."

	f := flag.NewFlagSet()
	f.ForwardWithValue(gitLogValueOptions...)
	gitPath := f.String("git", "", "`path` to git executable")
	showGit := f.Bool("show-git", false, "log git invocations")
	jobs := f.Int("jobs", 1, "number of histories to walk at once")
	renamesOnly := f.Bool("renames-only", false, "follow renames but not copies")
	if err := f.Parse(args); flag.IsHelp(err) {
		fmt.Fprintf(pctx.stdout, "usage: %s\n\n%s\n\noptions:\n%s", synopsis, description, f.Defaults())
		return nil
	} else if err != nil {
		return usagef("%v", err)
	}
	if f.NArg() == 0 {
		return usagef("%s", synopsis)
	}
	if f.IsSet("jobs") && *jobs < 1 {
		return usagef("--jobs must be at least 1 (got %d)", *jobs)
	}

	if *gitPath == "" {
		var err error
		*gitPath, err = pctx.lookPath("git")
		if err != nil {
			return fmt.Errorf("%s: %v", programName, err)
		}
	} else if !filepath.IsAbs(*gitPath) {
		*gitPath = filepath.Join(pctx.dir, *gitPath)
	}
	trace := &tracer{w: pctx.stderr, c: color.New(color.FgCyan), enabled: *showGit}
	if terminal.IsTerminal(pctx.stderr) {
		trace.c.EnableColor()
	} else {
		trace.c.DisableColor()
	}
	g, err := gittool.New(*gitPath, pctx.dir, &gittool.Options{
		LogHook: trace.log,
		Env:     pctx.env,
		Stdout:  pctx.stdout,
		Stderr:  pctx.stderr,
	})
	if err != nil {
		return fmt.Errorf("%s: %v", programName, err)
	}

	cfg, err := git.Custom(pctx.dir, g, nil).ReadConfig(ctx)
	if err != nil {
		return gitFailure(pctx, err)
	}
	if !f.IsSet("show-git") {
		if *showGit, err = configBool(cfg, "followall.showGit", *showGit); err != nil {
			return fmt.Errorf("%s: %v", programName, err)
		}
	}
	trace.enabled = *showGit
	if !f.IsSet("jobs") {
		if *jobs, err = configInt(cfg, "followall.jobs", *jobs); err != nil {
			return fmt.Errorf("%s: %v", programName, err)
		}
	}
	if !f.IsSet("renames-only") {
		if *renamesOnly, err = configBool(cfg, "followall.renamesOnly", *renamesOnly); err != nil {
			return fmt.Errorf("%s: %v", programName, err)
		}
	}

	top, prefix, err := follow.Locate(ctx, g)
	if err != nil {
		return gitFailure(pctx, err)
	}
	topGit := g.WithDir(top)
	pathspecs := make([]git.Pathspec, 0, f.NArg())
	for _, arg := range f.Args() {
		pathspecs = append(pathspecs, git.Pathspec(arg))
	}
	req, err := follow.Aggregate(ctx, g, pathspecs, &follow.AggregateOptions{
		Jobs:        *jobs,
		RenamesOnly: *renamesOnly,
		Top:         topGit,
		Prefix:      prefix,
	})
	if err != nil {
		return gitFailure(pctx, err)
	}
	err = follow.Emit(ctx, topGit, req, f.Options(), &follow.EmitOptions{
		Interactive: terminal.IsTerminal(pctx.stderr),
		Stderr:      pctx.stderr,
	})
	if code, ok := gittool.ExitCode(err); ok {
		// git log has already reported the problem.
		return exitCodeFor(code)
	}
	if err != nil {
		return fmt.Errorf("%s: %v", programName, err)
	}
	return nil
}

// gitFailure reports a failed git command on stderr and returns the
// exit code to end the process with. Errors that did not come from a
// git exit status are returned with the program name prefixed.
func gitFailure(pctx *processContext, err error) error {
	var exitErr *gittool.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%s: %v", programName, err)
	}
	fmt.Fprintf(pctx.stderr, "%s: %s\n", programName, escape.Command(exitErr.CommandLine()))
	if len(exitErr.Stderr) > 0 {
		fmt.Fprintf(pctx.stderr, "%s\n", exitErr.Stderr)
	}
	return exitCodeFor(exitErr.Code)
}

// tracer prints git invocations when enabled.
type tracer struct {
	w       io.Writer
	c       *color.Color
	enabled bool
}

func (tr *tracer) log(_ context.Context, args []string) {
	if !tr.enabled {
		return
	}
	tr.c.Fprintf(tr.w, "%s: exec: %s\n", programName, escape.Command(append([]string{"git"}, args...)))
}

type processContext struct {
	dir string
	env []string

	stdout io.Writer
	stderr io.Writer

	lookPath func(string) (string, error)
}

func osProcessContext() (*processContext, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &processContext{
		dir:      dir,
		env:      os.Environ(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		lookPath: exec.LookPath,
	}, nil
}

// exitCode is returned by run when the process should exit with the
// given code without printing anything further.
type exitCode int

// exitCodeFor converts a subprocess exit code into an exitCode,
// mapping death by signal to a generic failure.
func exitCodeFor(code int) exitCode {
	if code <= 0 {
		return 1
	}
	return exitCode(code)
}

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

type usageError string

func usagef(format string, args ...interface{}) error {
	e := usageError(fmt.Sprintf(format, args...))
	return &e
}

func (ue *usageError) Error() string {
	return programName + ": usage: " + string(*ue)
}

func isUsage(e error) bool {
	_, ok := e.(*usageError)
	return ok
}
