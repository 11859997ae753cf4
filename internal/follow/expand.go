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
	"path"
	"strings"

	"gg-scm.io/pkg/git"
)

// ExpandPathspec returns the tracked files matching p, as listed by
// `git ls-files`, each as a literal pathspec relative to the top of the
// working tree. g runs in the directory p is relative to, and prefix is
// that directory's path from the top as printed by
// `git rev-parse --show-prefix`.
//
// If nothing matches (p names a deleted file, say), ExpandPathspec
// returns p itself, rebased onto the top, so that its history can still
// be followed.
func ExpandPathspec(ctx context.Context, g Git, prefix string, p git.Pathspec) ([]git.Pathspec, error) {
	out, err := g.Output(ctx, "ls-files", "-z", "--full-name", "--", p.String())
	if err != nil {
		return nil, err
	}
	var paths []git.Pathspec
	for len(out) > 0 {
		var name string
		name, out, _ = strings.Cut(out, "\x00")
		if name != "" {
			paths = append(paths, git.LiteralPath(name))
		}
	}
	if len(paths) == 0 {
		return []git.Pathspec{rebase(prefix, p)}, nil
	}
	return paths, nil
}

// rebase makes a pathspec relative to the directory at prefix relative
// to the top of the working tree instead. Pathspecs with magic are
// returned unchanged.
func rebase(prefix string, p git.Pathspec) git.Pathspec {
	if prefix == "" || strings.HasPrefix(p.String(), ":") {
		return p
	}
	return git.Pathspec(path.Join(prefix, p.String()))
}

// Locate returns the top level of the working tree that g runs in and
// the path of g's directory relative to it. The prefix is empty at the
// top level and otherwise ends in a slash.
func Locate(ctx context.Context, g Git) (top, prefix string, err error) {
	out, err := g.Output(ctx, "rev-parse", "--show-toplevel", "--show-prefix")
	if err != nil {
		return "", "", err
	}
	top, rest, ok := strings.Cut(out, "\n")
	if !ok || top == "" {
		return "", "", fmt.Errorf("git rev-parse: %w: %q", ErrMalformedOutput, truncate(out, 64))
	}
	prefix = strings.TrimSuffix(rest, "\n")
	return top, prefix, nil
}
