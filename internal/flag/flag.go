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

// Package flag provides a command-line parser for programs that wrap
// another command. Flags defined on a FlagSet are consumed; any other
// option is passed through verbatim, and the remaining arguments are
// returned as operands.
package flag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// A FlagSet represents a set of defined flags. The zero value of a
// FlagSet is an empty set of flags that forwards every option.
type FlagSet struct {
	flags        map[string]*flag
	valueOptions map[string]bool
	actual       map[string]bool

	options  []string
	operands []string
}

type flag struct {
	name     string
	usage    string
	value    Value
	defValue string
}

// NewFlagSet returns a new, empty flag set.
func NewFlagSet() *FlagSet {
	return new(FlagSet)
}

// Bool defines a bool flag with specified name, default value, and
// usage string. The return value is the address of a bool variable
// that stores the value of the flag.
func (f *FlagSet) Bool(name string, value bool, usage string) *bool {
	f.Var((*boolValue)(&value), name, usage)
	return &value
}

// String defines a string flag with specified name, default value, and
// usage string. The return value is the address of a string variable
// that stores the value of the flag.
func (f *FlagSet) String(name string, value string, usage string) *string {
	f.Var((*stringValue)(&value), name, usage)
	return &value
}

// Int defines an int flag with specified name, default value, and
// usage string. The return value is the address of an int variable
// that stores the value of the flag.
func (f *FlagSet) Int(name string, value int, usage string) *int {
	f.Var((*intValue)(&value), name, usage)
	return &value
}

// Var defines a flag with the specified name and usage string.
func (f *FlagSet) Var(value Value, name string, usage string) {
	if _, exists := f.flags[name]; exists {
		panic("flag redefined: " + name)
	}
	if f.flags == nil {
		f.flags = make(map[string]*flag)
	}
	f.flags[name] = &flag{name, usage, value, value.String()}
}

// ForwardWithValue declares options of the wrapped command that take
// their value as a separate argument (like "-n 5" or "--author Bob").
// Without an '=', the argument following such an option is forwarded
// along with it instead of being treated as an operand. Names are given
// without leading dashes; single-letter names are short options.
func (f *FlagSet) ForwardWithValue(names ...string) {
	if f.valueOptions == nil {
		f.valueOptions = make(map[string]bool)
	}
	for _, name := range names {
		f.valueOptions[name] = true
	}
}

// Parse parses the argument list, which should not include the command
// name. If the argument list contains a "--", then everything before it
// is a flag or forwarded option and everything after it is an operand.
// Otherwise, arguments that do not start with a dash are operands.
//
// Defined flags are only recognized in their double-dash form. The
// returned error can be tested with IsHelp if -help or -h
// were given.
func (f *FlagSet) Parse(arguments []string) error {
	f.options = nil
	f.operands = nil
	f.actual = make(map[string]bool)
	end := slices.Index(arguments, "--")
	if end == -1 {
		end = len(arguments)
	} else {
		f.operands = slices.Clone(arguments[end+1:])
	}
	explicitOperands := end < len(arguments)
	for i := 0; i < end; i++ {
		a := arguments[i]
		switch {
		case a == "-h" || a == "-help" || a == "--help":
			return errHelp
		case strings.HasPrefix(a, "--") && f.lookup(a) != nil:
			name, val, hasval := split(a[2:])
			ff := f.flags[name]
			if !hasval {
				if ff.value.IsBoolFlag() {
					val = "true"
				} else if i+1 >= end {
					return fmt.Errorf("flag needs an argument: --%s", name)
				} else {
					i++
					val = arguments[i]
				}
			}
			if err := ff.value.Set(val); err != nil {
				return fmt.Errorf("invalid value %q for flag --%s: %v", val, name, err)
			}
			f.actual[name] = true
		case strings.HasPrefix(a, "-") && a != "-":
			f.options = append(f.options, a)
			if !f.takesSeparateValue(a) {
				continue
			}
			if i+1 >= end {
				return fmt.Errorf("option needs an argument: %s", a)
			}
			i++
			f.options = append(f.options, arguments[i])
		case explicitOperands:
			f.options = append(f.options, a)
		default:
			f.operands = append(f.operands, a)
		}
	}
	return nil
}

// lookup returns the defined flag named by a double-dash argument, or
// nil if a does not name one.
func (f *FlagSet) lookup(a string) *flag {
	name, _, _ := split(strings.TrimPrefix(a, "--"))
	return f.flags[name]
}

func (f *FlagSet) takesSeparateValue(a string) bool {
	if strings.HasPrefix(a, "--") {
		return !strings.Contains(a, "=") && f.valueOptions[a[2:]]
	}
	// A short option with an attached value ("-n5") is a single argument.
	return len(a) == 2 && f.valueOptions[a[1:]]
}

func split(f string) (name, value string, hasValue bool) {
	i := strings.IndexByte(f, '=')
	if i == -1 {
		return f, "", false
	}
	return f[:i], f[i+1:], true
}

// IsSet reports whether the named flag was given during the last
// call to Parse.
func (f *FlagSet) IsSet(name string) bool {
	return f.actual[name]
}

// Options returns the arguments to forward to the wrapped command, in
// the order they were given.
func (f *FlagSet) Options() []string {
	return f.options[:len(f.options):len(f.options)]
}

// Args returns the operands.
func (f *FlagSet) Args() []string {
	return f.operands[:len(f.operands):len(f.operands)]
}

// NArg returns the number of operands.
func (f *FlagSet) NArg() int {
	return len(f.operands)
}

// Defaults returns the usage text for the defined flags, one per line,
// sorted by name.
func (f *FlagSet) Defaults() string {
	names := make([]string, 0, len(f.flags))
	for name := range f.flags {
		names = append(names, name)
	}
	slices.Sort(names)
	sb := new(strings.Builder)
	for _, name := range names {
		ff := f.flags[name]
		sb.WriteString("  --")
		sb.WriteString(name)
		if !ff.value.IsBoolFlag() {
			sb.WriteString("=VALUE")
		}
		sb.WriteString("\n    \t")
		sb.WriteString(ff.usage)
		if ff.defValue != "" && ff.defValue != "false" && ff.defValue != "0" {
			fmt.Fprintf(sb, " (default %s)", ff.defValue)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Value is the interface to the dynamic value stored in a flag.
type Value interface {
	// String presents the current value as a string.
	String() string

	// Set is called once, in command line order, for each flag present.
	Set(string) error

	// If IsBoolFlag returns true, then the command-line parser makes
	// --name equivalent to --name=true rather than using the next
	// command-line argument.
	IsBoolFlag() bool
}

type boolValue bool

func (b *boolValue) String() string {
	return strconv.FormatBool(bool(*b))
}

func (b *boolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	*b = boolValue(v)
	return err
}

func (b *boolValue) IsBoolFlag() bool {
	return true
}

type stringValue string

func (s *stringValue) String() string {
	return string(*s)
}

func (s *stringValue) Set(v string) error {
	*s = stringValue(v)
	return nil
}

func (s *stringValue) IsBoolFlag() bool {
	return false
}

type intValue int

func (n *intValue) String() string {
	return strconv.Itoa(int(*n))
}

func (n *intValue) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		return err
	}
	*n = intValue(v)
	return nil
}

func (n *intValue) IsBoolFlag() bool {
	return false
}

// IsHelp reports true if e indicates that -help or -h was
// given.
func IsHelp(e error) bool {
	return e == errHelp
}

var errHelp = errors.New("flag: help requested")
