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

package main

import (
	"fmt"
	"strconv"

	"gg-scm.io/pkg/git"
)

// configBool returns the boolean setting name, or def if it is not set.
func configBool(cfg *git.Config, name string, def bool) (bool, error) {
	b, err := cfg.Bool(name)
	if err != nil {
		if cfg.Value(name) == "" {
			// Not set.
			return def, nil
		}
		return false, err
	}
	return b, nil
}

// configInt returns the integer setting name, or def if it is not set.
// The k, m, and g suffixes scale the value as they do for git.
func configInt(cfg *git.Config, name string, def int) (int, error) {
	v := cfg.Value(name)
	if v == "" {
		return def, nil
	}
	n, ok := parseInt(v)
	if !ok {
		return 0, fmt.Errorf("config %s: cannot parse %q as an integer", name, v)
	}
	return n, nil
}

func parseInt(v string) (_ int, ok bool) {
	if v == "" {
		return 0, false
	}
	mult := 1
	switch v[len(v)-1] {
	case 'k', 'K':
		mult = 1 << 10
	case 'm', 'M':
		mult = 1 << 20
	case 'g', 'G':
		mult = 1 << 30
	}
	if mult != 1 {
		v = v[:len(v)-1]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n * mult, true
}
