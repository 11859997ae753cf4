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
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gg-scm.io/followall/internal/filesystem"
	"gg-scm.io/followall/internal/gittool"
	"gg-scm.io/pkg/git"
	"github.com/google/go-cmp/cmp"
)

type testRepo struct {
	git    *gittool.Tool
	root   filesystem.Dir
	stdout *strings.Builder

	// commits counts the commits made so far, to give each a distinct
	// timestamp.
	commits int
}

func newTestRepo(tb testing.TB) *testRepo {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping due to -short")
	}
	gitPath, err := exec.LookPath("git")
	if err != nil {
		tb.Skip("git not found:", err)
	}
	top := tb.TempDir()
	root := filepath.Join(top, "repo")
	if err := os.Mkdir(root, 0777); err != nil {
		tb.Fatal(err)
	}
	const miniConfig = "[user]\nname = User\nemail = foo@example.com\n"
	if err := os.WriteFile(filepath.Join(top, ".gitconfig"), []byte(miniConfig), 0666); err != nil {
		tb.Fatal(err)
	}
	stdout := new(strings.Builder)
	g, err := gittool.New(gitPath, root, &gittool.Options{
		Env: []string{
			"GIT_CONFIG_NOSYSTEM=1",
			"HOME=" + top,
		},
		Stdout: stdout,
	})
	if err != nil {
		tb.Fatal(err)
	}
	if _, err := g.Output(context.Background(), "init", "--quiet"); err != nil {
		tb.Fatal(err)
	}
	return &testRepo{git: g, root: filesystem.Dir(root), stdout: stdout}
}

// commit applies the operations, stages everything, and commits. Each
// commit is dated a minute after the previous one.
func (r *testRepo) commit(tb testing.TB, msg string, ops ...filesystem.Operation) {
	tb.Helper()
	ctx := context.Background()
	if err := r.root.Apply(ops...); err != nil {
		tb.Fatal(err)
	}
	if _, err := r.git.Output(ctx, "add", "--all", "."); err != nil {
		tb.Fatal(err)
	}
	r.commits++
	date := fmt.Sprintf("%d +0000", 1700000000+60*r.commits)
	err := r.git.RunGit(ctx, &git.Invocation{
		Args: []string{"commit", "--quiet", "-m", msg},
		Env:  []string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date},
	})
	if err != nil {
		tb.Fatal(err)
	}
}

func TestIntegration(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	r.commit(t, "add a", filesystem.Write("a.txt", "apple\n"))
	r.commit(t, "add old", filesystem.Write("old.txt", "the quick brown fox\njumps over\nthe lazy dog\n"))
	r.commit(t, "rename", filesystem.Rename("old.txt", "b.txt"))
	r.commit(t, "edit b", filesystem.Write("b.txt", "the quick brown fox\njumps over\nthe lazy dog\nagain\n"))
	r.commit(t, "edit a", filesystem.Write("a.txt", "apple\nbanana\n"))

	hist, err := WalkHistory(ctx, r.git, "b.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]git.TopPath{"b.txt", "old.txt"}, hist.Chain.Names()); diff != "" {
		t.Errorf("chain for b.txt (-want +got):\n%s", diff)
	}
	if len(hist.Commits) != 3 {
		t.Errorf("b.txt history has %d commits; want 3", len(hist.Commits))
	}

	req, err := Aggregate(ctx, r.git, []git.Pathspec{"a.txt", "b.txt"}, &AggregateOptions{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]git.Pathspec{"a.txt", "b.txt", "old.txt"}, req.Pathspecs); diff != "" {
		t.Errorf("pathspecs (-want +got):\n%s", diff)
	}
	if len(req.Commits) != 5 {
		t.Errorf("aggregated %d commits; want 5", len(req.Commits))
	}

	if err := Emit(ctx, r.git, req, []string{"--format=%s"}, nil); err != nil {
		t.Fatal(err)
	}
	want := "edit a\nedit b\nrename\nadd old\nadd a\n"
	if got := r.stdout.String(); got != want {
		t.Errorf("log output:\n%s\nwant:\n%s", got, want)
	}
}

func TestIntegrationDirectory(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	r.commit(t, "add lib", filesystem.Write("lib/util.txt", "one\ntwo\nthree\nfour\n"))
	r.commit(t, "move lib", filesystem.Rename("lib/util.txt", "pkg/util.txt"))
	r.commit(t, "unrelated", filesystem.Write("README", "hello\n"))

	req, err := Aggregate(ctx, r.git, []git.Pathspec{"pkg"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]git.Pathspec{"pkg/util.txt", "lib/util.txt"}, req.Pathspecs); diff != "" {
		t.Errorf("pathspecs (-want +got):\n%s", diff)
	}
	if err := Emit(ctx, r.git, req, []string{"--format=%s"}, nil); err != nil {
		t.Fatal(err)
	}
	want := "move lib\nadd lib\n"
	if got := r.stdout.String(); got != want {
		t.Errorf("log output:\n%s\nwant:\n%s", got, want)
	}
}

func TestIntegrationDeletedPath(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	r.commit(t, "add a", filesystem.Write("a.txt", "apple\n"))
	r.commit(t, "add gone", filesystem.Write("gone.txt", "soon to be deleted\n"))
	r.commit(t, "delete gone", filesystem.Remove("gone.txt"))

	req, err := Aggregate(ctx, r.git, []git.Pathspec{"gone.txt"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]git.Pathspec{"gone.txt"}, req.Pathspecs); diff != "" {
		t.Errorf("pathspecs (-want +got):\n%s", diff)
	}
	if len(req.Commits) != 2 {
		t.Errorf("aggregated %d commits; want 2", len(req.Commits))
	}
}

func TestIntegrationSubdirectory(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	r.commit(t, "add old", filesystem.Write("sub/old.txt", "the quick brown fox\njumps over\nthe lazy dog\n"))
	r.commit(t, "rename", filesystem.Rename("sub/old.txt", "sub/b.txt"))

	wd := r.git.WithDir("sub")
	top, prefix, err := Locate(ctx, wd)
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "sub/" {
		t.Errorf("prefix = %q; want \"sub/\"", prefix)
	}
	req, err := Aggregate(ctx, wd, []git.Pathspec{"b.txt"}, &AggregateOptions{
		Top:    r.git.WithDir(top),
		Prefix: prefix,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]git.Pathspec{"sub/b.txt", "sub/old.txt"}, req.Pathspecs); diff != "" {
		t.Errorf("pathspecs (-want +got):\n%s", diff)
	}
	if len(req.Commits) != 2 {
		t.Errorf("aggregated %d commits; want 2", len(req.Commits))
	}
}

func TestIntegrationGlobCharacters(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	r.commit(t, "add plain", filesystem.Write("lib/x.txt", "plain\n"))
	r.commit(t, "remove plain", filesystem.Remove("lib/x.txt"))
	r.commit(t, "add bracket", filesystem.Write("lib/[x].txt", "bracket one\ntwo\nthree\n"))
	r.commit(t, "rename bracket", filesystem.Rename("lib/[x].txt", "lib/[y].txt"))

	req, err := Aggregate(ctx, r.git, []git.Pathspec{"lib"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []git.Pathspec{":(literal)lib/[y].txt", ":(literal)lib/[x].txt"}
	if diff := cmp.Diff(want, req.Pathspecs); diff != "" {
		t.Errorf("pathspecs (-want +got):\n%s", diff)
	}
	if len(req.Commits) != 2 {
		t.Errorf("aggregated %d commits; want 2", len(req.Commits))
	}
}
