// Package instrument - attribute list support.
//
// An attribute list gives per-function control over instrumentation
// without touching the source: functions matching a "never" pattern are
// left alone, functions matching an "always" pattern are hooked even when
// below the statement threshold.
package instrument

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Attr is the attribute-list verdict for one function name.
type Attr int

const (
	// AttrNone means the list has no opinion; normal selection applies.
	AttrNone Attr = iota

	// AttrNever excludes the function from instrumentation.
	AttrNever

	// AttrAlways instruments the function regardless of size.
	AttrAlways
)

// AttrList holds the never/always pattern sets. Patterns use path.Match
// syntax and are tested against qualified function names as rendered in
// the funcmap: "pkg.Func" or "pkg.Recv.Method".
//
// Example list:
//
//	never:
//	  - "metrics.*"
//	  - "*.String"
//	always:
//	  - "server.handle*"
type AttrList struct {
	Never  []string `yaml:"never"`
	Always []string `yaml:"always"`
}

// LoadAttrList reads an attribute list from a YAML file.
func LoadAttrList(filename string) (*AttrList, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read attribute list: %w", err)
	}
	var list AttrList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse attribute list %s: %w", filename, err)
	}
	if err := list.validate(); err != nil {
		return nil, fmt.Errorf("attribute list %s: %w", filename, err)
	}
	return &list, nil
}

// validate rejects malformed patterns up front, so a bad list fails the
// run instead of silently matching nothing.
func (l *AttrList) validate() error {
	for _, p := range append(append([]string{}, l.Never...), l.Always...) {
		if _, err := path.Match(p, "probe"); err != nil {
			return fmt.Errorf("bad pattern %q: %w", p, err)
		}
	}
	return nil
}

// Match returns the list's verdict for a qualified function name. Never
// wins over always when both match. A nil list has no opinion.
func (l *AttrList) Match(name string) Attr {
	if l == nil {
		return AttrNone
	}
	for _, p := range l.Never {
		if ok, _ := path.Match(p, name); ok {
			return AttrNever
		}
	}
	for _, p := range l.Always {
		if ok, _ := path.Match(p, name); ok {
			return AttrAlways
		}
	}
	return AttrNone
}
