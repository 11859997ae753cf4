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

package follow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"gg-scm.io/pkg/git"
)

const (
	hashA1 Hash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1"
	hashA2 Hash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa2"
	hashC1 Hash = "ccccccccccccccccccccccccccccccccccccccc1"
	hashC2 Hash = "ccccccccccccccccccccccccccccccccccccccc2"
	hashC3 Hash = "ccccccccccccccccccccccccccccccccccccccc3"
)

// fakeGit answers Output calls from a table keyed by the space-joined
// arguments and records Stream calls.
type fakeGit struct {
	outputs map[string]string
	errs    map[string]error

	mu          sync.Mutex
	calls       []string
	streamCalls int
	streamArgs  []string
	streamStdin string
	streamErr   error
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (g *fakeGit) Output(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	g.mu.Lock()
	g.calls = append(g.calls, key)
	g.mu.Unlock()
	if err := g.errs[key]; err != nil {
		return "", err
	}
	out, ok := g.outputs[key]
	if !ok {
		return "", fmt.Errorf("fake git: unexpected command %q", key)
	}
	return out, nil
}

func (g *fakeGit) Stream(ctx context.Context, stdin io.Reader, args ...string) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.streamCalls++
	g.streamArgs = append([]string(nil), args...)
	g.streamStdin = string(data)
	return g.streamErr
}

func followKey(p git.Pathspec) string {
	return "log --follow --name-status " + followLogFormat + " -z -- " + p.String()
}

func lsFilesKey(p git.Pathspec) string {
	return "ls-files -z --full-name -- " + p.String()
}

// fakeCommit is one commit in the output of `git log --follow
// --name-status -z`.
type fakeCommit struct {
	hash   Hash
	fields []string
}

// followOutput formats commits the way git does with followLogFormat.
func followOutput(commits ...fakeCommit) string {
	sb := new(strings.Builder)
	for _, c := range commits {
		sb.WriteString("\x00\x00")
		sb.WriteString(c.hash.String())
		if len(c.fields) == 0 {
			continue
		}
		sb.WriteByte('\n')
		for _, f := range c.fields {
			sb.WriteString(f)
			sb.WriteByte(0)
		}
	}
	return sb.String()
}

func lsFilesOutput(paths ...string) string {
	sb := new(strings.Builder)
	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteByte(0)
	}
	return sb.String()
}
