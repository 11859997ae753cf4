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
	"strings"

	"gg-scm.io/pkg/git"
)

// A ChangeRecord describes a single path touched by a commit, as
// reported by `git log --name-status -z`.
type ChangeRecord struct {
	// Status is the status field as git printed it, like "M" or "R087".
	Status string
	// Source is the path that Target was renamed or copied from. It is
	// only set when IsNameChange reports true.
	Source git.TopPath
	Target git.TopPath
}

// Kind returns the change's status letter.
func (rec ChangeRecord) Kind() git.DiffStatusCode {
	if rec.Status == "" {
		return 0
	}
	return git.DiffStatusCode(rec.Status[0])
}

// IsNameChange reports whether the record is a rename or a copy.
func (rec ChangeRecord) IsNameChange() bool {
	return IsNameChange(rec.Status)
}

// String returns the record in a form like "R100 old.txt -> new.txt".
func (rec ChangeRecord) String() string {
	if rec.IsNameChange() {
		return rec.Status + " " + rec.Source.String() + " -> " + rec.Target.String()
	}
	return rec.Status + " " + rec.Target.String()
}

// IsNameChange reports whether status is a rename or copy status field:
// an 'R' or 'C' followed by an optional decimal similarity score.
// Renames and copies are followed alike.
func IsNameChange(status string) bool {
	if status == "" {
		return false
	}
	switch git.DiffStatusCode(status[0]) {
	case git.DiffStatusRenamed, git.DiffStatusCopied:
	default:
		return false
	}
	for i := 1; i < len(status); i++ {
		if status[i] < '0' || status[i] > '9' {
			return false
		}
	}
	return true
}

// A StatusScanner reads ChangeRecords from a name-status blob: a
// sequence of NUL-separated fields where each status field is followed
// by one path, or by two paths (source then target) for a name change.
// Empty fields are skipped. An incomplete group at the end of the blob
// is dropped.
type StatusScanner struct {
	data string
	rec  ChangeRecord
}

// NewStatusScanner returns a scanner that reads from blob.
func NewStatusScanner(blob string) *StatusScanner {
	return &StatusScanner{data: blob}
}

// Scan advances to the next record, which will then be available
// through Record. It returns false when there are no more complete
// records.
func (s *StatusScanner) Scan() bool {
	status, ok := s.field()
	if !ok {
		return false
	}
	rec := ChangeRecord{Status: status}
	if IsNameChange(status) {
		src, ok := s.field()
		if !ok {
			return false
		}
		rec.Source = git.TopPath(src)
	}
	target, ok := s.field()
	if !ok {
		return false
	}
	rec.Target = git.TopPath(target)
	s.rec = rec
	return true
}

// Record returns the most recent record read by Scan.
func (s *StatusScanner) Record() ChangeRecord {
	return s.rec
}

// field consumes the next non-empty field.
func (s *StatusScanner) field() (string, bool) {
	for len(s.data) > 0 {
		var f string
		if i := strings.IndexByte(s.data, 0); i == -1 {
			f, s.data = s.data, ""
		} else {
			f, s.data = s.data[:i], s.data[i+1:]
		}
		if f != "" {
			return f, true
		}
	}
	return "", false
}

// ParseStatus returns all the complete records in a name-status blob.
func ParseStatus(blob string) []ChangeRecord {
	var recs []ChangeRecord
	for s := NewStatusScanner(blob); s.Scan(); {
		recs = append(recs, s.Record())
	}
	return recs
}
