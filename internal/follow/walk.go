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
	"errors"
	"fmt"
	"strings"

	"gg-scm.io/pkg/git"
)

// ErrMalformedOutput is wrapped by errors returned when git's output
// does not have the expected framing.
var ErrMalformedOutput = errors.New("malformed git output")

// A Chain is the list of names a tracked file has had, starting with the
// queried name and moving backward in time. Names are relative to the
// top of the working tree. It only grows.
type Chain struct {
	names []git.TopPath
}

// NewChain returns a chain containing only start.
func NewChain(start git.TopPath) *Chain {
	return &Chain{names: []git.TopPath{start}}
}

// Current returns the oldest name discovered so far, which is the name
// that older commits will refer to.
func (c *Chain) Current() git.TopPath {
	return c.names[len(c.names)-1]
}

// Append records name as the name the file had before Current.
func (c *Chain) Append(name git.TopPath) {
	c.names = append(c.names, name)
}

// Len returns the number of names in the chain.
func (c *Chain) Len() int {
	return len(c.names)
}

// Names returns a copy of the names in the chain.
func (c *Chain) Names() []git.TopPath {
	return append([]git.TopPath(nil), c.names...)
}

// PathHistory is the result of following a single pathspec.
type PathHistory struct {
	// Pathspec is the queried pathspec.
	Pathspec git.Pathspec
	// Commits lists the commits that touched the pathspec under any of
	// its names, newest first.
	Commits []Hash
	// Chain holds the pathspec's historical names.
	Chain *Chain
}

// Pathspecs returns the pathspecs that select the file under all of its
// names: the queried pathspec followed by each earlier name as a literal
// path.
func (hist *PathHistory) Pathspecs() []git.Pathspec {
	names := hist.Chain.Names()
	specs := make([]git.Pathspec, 0, len(names))
	specs = append(specs, hist.Pathspec)
	for _, name := range names[1:] {
		specs = append(specs, git.LiteralPath(name.String()))
	}
	return specs
}

// WalkOptions specifies optional parameters to WalkHistory.
type WalkOptions struct {
	// RenamesOnly prevents copies from extending the chain. By default
	// a copy counts as a previous name just like a rename.
	RenamesOnly bool
}

// followLogFormat starts every commit with two NULs so that records
// can be told apart from the NUL-separated name-status fields.
const followLogFormat = "--pretty=format:%x00%x00%H"

// WalkHistory follows p backward through its renames using
// `git log --follow`. g must run at the top of the working tree so that
// p and the names git reports are relative to the same directory.
func WalkHistory(ctx context.Context, g Git, p git.Pathspec, opts *WalkOptions) (*PathHistory, error) {
	out, err := g.Output(ctx, "log", "--follow", "--name-status", followLogFormat, "-z", "--", p.String())
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = new(WalkOptions)
	}
	hist, err := parseFollowLog(out, p, opts.RenamesOnly)
	if err != nil {
		return nil, fmt.Errorf("git log --follow %s: %w", p, err)
	}
	return hist, nil
}

func parseFollowLog(out string, p git.Pathspec, renamesOnly bool) (*PathHistory, error) {
	hist := &PathHistory{
		Pathspec: p,
		Chain:    NewChain(pathName(p)),
	}
	for _, chunk := range strings.Split(out, "\x00\x00") {
		// A name-status blob ends in a NUL, so the separator may be
		// preceded by an odd one.
		chunk = strings.TrimLeft(chunk, "\x00")
		if chunk == "" {
			continue
		}
		hash, blob, _ := strings.Cut(chunk, "\n")
		if !isHash(hash) {
			return nil, fmt.Errorf("%w: record %q does not start with a commit hash", ErrMalformedOutput, truncate(chunk, 64))
		}
		hist.Commits = append(hist.Commits, Hash(hash))

		// At most one new name per commit, like git's own --follow.
		for s := NewStatusScanner(blob); s.Scan(); {
			rec := s.Record()
			if !rec.IsNameChange() || rec.Target != hist.Chain.Current() {
				continue
			}
			if renamesOnly && rec.Kind() != git.DiffStatusRenamed {
				continue
			}
			hist.Chain.Append(rec.Source)
			break
		}
	}
	return hist, nil
}

// pathName returns the path p matches when p is a single file name,
// stripping any magic such as the ":(literal)" added by git.LiteralPath.
func pathName(p git.Pathspec) git.TopPath {
	_, pattern := p.SplitMagic()
	return git.TopPath(pattern)
}

// isHash reports whether s is a full hex-encoded SHA-1 or SHA-256 hash.
func isHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
