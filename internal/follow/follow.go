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

// Package follow reconstructs the history of a set of pathspecs across
// renames and copies and produces a single git log restricted to it.
//
// Paths and hashes are carried as Go strings, which hold arbitrary
// bytes. Nothing in this package decodes them as UTF-8.
package follow

import (
	"context"
	"io"

	"gg-scm.io/pkg/git"
)

// Git runs git subcommands. *gittool.Tool implements Git.
type Git interface {
	// Output runs git and returns its stdout.
	Output(ctx context.Context, args ...string) (string, error)
	// Stream runs git with the given stdin, sending its stdout and
	// stderr to the program's streams.
	Stream(ctx context.Context, stdin io.Reader, args ...string) error
}

// Hash is a commit hash as printed by git. It is opaque to this package.
type Hash string

// String returns the hash as a string.
func (h Hash) String() string {
	return string(h)
}

// A Request is the combination of several pathspec histories: every
// commit that touched any of them and every name they have had.
// Neither list is deduplicated.
type Request struct {
	Commits   []Hash
	Pathspecs []git.Pathspec
}
