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

	"gg-scm.io/pkg/git"
	"golang.org/x/sync/errgroup"
)

// AggregateOptions specifies optional parameters to Aggregate.
type AggregateOptions struct {
	// Jobs is the maximum number of histories walked at once.
	// Values less than 1 are treated as 1.
	Jobs int
	// RenamesOnly is passed to WalkHistory.
	RenamesOnly bool

	// Top runs git at the top of the working tree. If nil, g is
	// assumed to already be there.
	Top Git
	// Prefix is the path of g's directory relative to Top, as returned
	// by Locate.
	Prefix string
}

// Aggregate expands each pathspec, walks the history of every expanded
// path, and concatenates the results. The order of the returned lists
// does not depend on Jobs: it is always the order of the pathspecs, then
// of the expanded paths, then of each walk. Pathspecs are relative to
// g's directory; the returned ones are relative to the top.
func Aggregate(ctx context.Context, g Git, pathspecs []git.Pathspec, opts *AggregateOptions) (*Request, error) {
	if opts == nil {
		opts = new(AggregateOptions)
	}
	var paths []git.Pathspec
	for _, p := range pathspecs {
		expanded, err := ExpandPathspec(ctx, g, opts.Prefix, p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded...)
	}

	top := opts.Top
	if top == nil {
		top = g
	}
	histories := make([]*PathHistory, len(paths))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(max(opts.Jobs, 1))
	walkOpts := &WalkOptions{RenamesOnly: opts.RenamesOnly}
	for i, p := range paths {
		i, p := i, p
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				// Another walk already failed.
				return err
			}
			hist, err := WalkHistory(grpCtx, top, p, walkOpts)
			if err != nil {
				return err
			}
			histories[i] = hist
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	req := new(Request)
	for _, hist := range histories {
		req.Commits = append(req.Commits, hist.Commits...)
		req.Pathspecs = append(req.Pathspecs, hist.Pathspecs()...)
	}
	return req, nil
}
