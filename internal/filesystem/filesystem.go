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

// Package filesystem provides concise data structures for filesystem
// operations and functions to apply them to local files. It is used to
// lay out working copies for tests.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// An Operation describes a single step of a Dir.Apply.
type Operation struct {
	// Op specifies what Apply should do.
	Op Op
	// Name is a slash-separated path relative to the directory.
	Name string
	// Content is the content of the file created for a Write Op.
	// For a Rename Op, it is the slash-separated destination path.
	Content string
}

// Write returns an operation that creates or overwrites a file,
// creating any parent directories.
func Write(name string, content string) Operation {
	return Operation{Op: WriteOp, Name: name, Content: content}
}

// Mkdir returns an operation that creates a directory, creating any
// parent directories. The directory must not already exist.
func Mkdir(name string) Operation {
	return Operation{Op: MkdirOp, Name: name}
}

// Remove returns an operation that removes a file or directory tree.
// The path must exist.
func Remove(name string) Operation {
	return Operation{Op: RemoveOp, Name: name}
}

// Rename returns an operation that moves a file, creating any parent
// directories of the destination.
func Rename(oldName, newName string) Operation {
	return Operation{Op: RenameOp, Name: oldName, Content: newName}
}

// String returns a readable description of an operation like "remove foo/bar".
func (o Operation) String() string {
	switch o.Op {
	case WriteOp:
		return fmt.Sprintf("write %q to %q", o.Content, o.Name)
	case RenameOp:
		return fmt.Sprintf("rename %q to %q", o.Name, o.Content)
	default:
		return fmt.Sprintf("%v %q", o.Op, o.Name)
	}
}

// Op is an operation code.
type Op int

// Operation codes.
const (
	WriteOp Op = iota
	MkdirOp
	RemoveOp
	RenameOp
)

// String returns the lowercased name of op.
func (op Op) String() string {
	switch op {
	case WriteOp:
		return "write"
	case MkdirOp:
		return "mkdir"
	case RemoveOp:
		return "remove"
	case RenameOp:
		return "rename"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// A Dir is a filesystem path to a directory from which to apply operations.
type Dir string

// Apply applies the sequence of filesystem operations given. It stops
// at the first operation to fail.
func (dir Dir) Apply(ops ...Operation) error {
	for _, o := range ops {
		p := dir.FromSlash(o.Name)
		switch o.Op {
		case WriteOp:
			if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
				return err
			}
			if err := os.WriteFile(p, []byte(o.Content), 0666); err != nil {
				return err
			}
		case MkdirOp:
			if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
				return err
			}
			if err := os.Mkdir(p, 0777); err != nil {
				return err
			}
		case RemoveOp:
			if _, err := os.Lstat(p); err != nil {
				return err
			}
			if err := os.RemoveAll(p); err != nil {
				return err
			}
		case RenameOp:
			dst := dir.FromSlash(o.Content)
			if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
				return err
			}
			if err := os.Rename(p, dst); err != nil {
				return err
			}
		default:
			return fmt.Errorf("apply: unknown operation %v", o.Op)
		}
	}
	return nil
}

// ReadFile reads the content of the file at the given slash-separated
// path relative to dir.
func (dir Dir) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(dir.FromSlash(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromSlash resolves the given slash-separated path relative to dir.
// path must not be an absolute path.
func (dir Dir) FromSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		panic("absolute path to filesystem.Dir.FromSlash")
	}
	return filepath.Join(string(dir), filepath.FromSlash(path))
}

// String returns the directory path.
func (dir Dir) String() string {
	return string(dir)
}
