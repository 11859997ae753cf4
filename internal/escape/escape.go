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

// Package escape provides functions for quoting command-line arguments
// for display.
package escape

import (
	"runtime"
	"strings"
)

// Shell quotes s such that it can be used as a literal argument in a
// command line for the host's shell.
func Shell(s string) string {
	if runtime.GOOS == "windows" {
		return shellWindows(s)
	}
	return shellUnix(s)
}

// Command quotes each argument with Shell and joins them with spaces.
func Command(args []string) string {
	sb := new(strings.Builder)
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Shell(a))
	}
	return sb.String()
}

func shellUnix(s string) string {
	if s == "" {
		return "''"
	}
	if isSafe(s, false) {
		return s
	}
	sb := new(strings.Builder)
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			sb.WriteString(`'\''`)
		} else {
			sb.WriteByte(s[i])
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func shellWindows(s string) string {
	if s == "" {
		return `""`
	}
	if isSafe(s, true) {
		return s
	}
	sb := new(strings.Builder)
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			sb.WriteString(`""`)
		} else {
			sb.WriteByte(s[i])
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func isSafe(s string, windows bool) bool {
	for i := 0; i < len(s); i++ {
		if !isShellSafe(s[i]) && !(windows && s[i] == '\\') {
			return false
		}
	}
	return true
}

func isShellSafe(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '-' || b == '_' || b == '/' || b == '.' || b == '=' || b == ':' || b == '%'
}
