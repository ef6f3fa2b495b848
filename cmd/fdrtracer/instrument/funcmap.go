// Package instrument - funcmap generation.
//
// The funcmap is the decoder ring for a trace: it maps the numeric
// function IDs embedded in trace records back to function names and
// source positions. It also carries a digest of every instrumented file,
// so a trace produced by stale instrumentation is detectable instead of
// silently misattributed.
package instrument

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// FuncMap is the document written next to an instrumented tree.
type FuncMap struct {
	// Module is the module path of the instrumented code, when a go.mod
	// was found.
	Module string `yaml:"module,omitempty"`

	// Functions maps IDs to functions, in ID order.
	Functions []FuncInfo `yaml:"functions"`

	// Digests holds a BLAKE3 digest of each instrumented file's original
	// source, keyed by the path as it appears in Functions.
	Digests map[string]string `yaml:"digests,omitempty"`
}

// NewFuncMap assembles the document for one instrumentation pass. dir is
// where the module lookup starts; digests carries the original source of
// each instrumented file.
func NewFuncMap(dir string, funcs []FuncInfo, sources map[string][]byte) *FuncMap {
	m := &FuncMap{
		Module:    ModulePath(dir),
		Functions: funcs,
	}
	if len(sources) > 0 {
		m.Digests = make(map[string]string, len(sources))
		for file, src := range sources {
			m.Digests[file] = Digest(src)
		}
	}
	return m
}

// Write marshals the funcmap to filename as YAML.
func (m *FuncMap) Write(filename string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal funcmap: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write funcmap: %w", err)
	}
	return nil
}

// ReadFuncMap loads a funcmap written by a previous pass.
func ReadFuncMap(filename string) (*FuncMap, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read funcmap: %w", err)
	}
	var m FuncMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse funcmap %s: %w", filename, err)
	}
	return &m, nil
}

// Digest returns the hex BLAKE3 digest of a file's source.
func Digest(src []byte) string {
	sum := blake3.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// ModulePath finds the enclosing module's path by walking from dir toward
// the filesystem root looking for a go.mod. It returns "" when dir is not
// inside a module; the funcmap is still usable, just unlabeled.
func ModulePath(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return modfile.ModulePath(data)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
