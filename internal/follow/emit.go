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
)

// EmitOptions specifies optional parameters to Emit.
type EmitOptions struct {
	// Interactive reports whether a person is watching Stderr. When
	// there are no commits and Interactive is true, Emit prints a notice
	// to Stderr instead of running git.
	Interactive bool
	Stderr      io.Writer
}

// Emit runs `git log` over exactly the commits and pathspecs in req,
// passing gitOptions through. git writes the log directly to the
// program's output. Any git failure is returned as-is so that the
// caller can exit with git's status.
func Emit(ctx context.Context, g Git, req *Request, gitOptions []string, opts *EmitOptions) error {
	if opts == nil {
		opts = new(EmitOptions)
	}
	if len(req.Commits) == 0 && opts.Interactive {
		if opts.Stderr != nil {
			fmt.Fprintln(opts.Stderr, "nothing to do.")
		}
		return nil
	}

	args := make([]string, 0, 4+len(gitOptions)+len(req.Pathspecs))
	args = append(args, "log", "--stdin", "--ignore-missing")
	args = append(args, gitOptions...)
	args = append(args, "--")
	for _, p := range req.Pathspecs {
		args = append(args, p.String())
	}
	stdin := new(strings.Builder)
	for _, h := range req.Commits {
		stdin.WriteString(h.String())
		stdin.WriteByte('\n')
	}
	return g.Stream(ctx, strings.NewReader(stdin.String()), args...)
}
