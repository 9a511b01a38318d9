package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Spec is a check file: which script to run, how, and what must hold.
type Spec struct {
	Spec       SpecDetails             `toml:"spec" yaml:"spec"`
	Expect     ExpectSpec              `toml:"expect,omitempty" yaml:"expect,omitempty"`
	Properties map[string]PropertySpec `toml:"properties,omitempty" yaml:"properties,omitempty"`
}

type SpecDetails struct {
	File       string   `toml:"file,omitempty" yaml:"file,omitempty"`
	CarryStack bool     `toml:"carry_stack,omitempty" yaml:"carry_stack,omitempty"`
	Prelude    []string `toml:"prelude,omitempty" yaml:"prelude,omitempty"`
}

// ExpectSpec describes the outcome of the whole script. A nil Stack is not
// checked; an empty one requires an empty stack.
type ExpectSpec struct {
	Stack *[]int `toml:"stack,omitempty" yaml:"stack,omitempty"`
	Error string `toml:"error,omitempty" yaml:"error,omitempty"`
}

type PropertySpec struct {
	Always           string `toml:"always,omitempty" yaml:"always,omitempty"`
	Eventually       string `toml:"eventually,omitempty" yaml:"eventually,omitempty"`
	EventuallyAlways string `toml:"eventually_always,omitempty" yaml:"eventually_always,omitempty"`
	AlwaysEventually string `toml:"always_eventually,omitempty" yaml:"always_eventually,omitempty"`
}

type Format int

const (
	TOML Format = iota
	YAML
)

func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("unsupported check file extension %q", filepath.Ext(path))
}

func parseSpec(f io.Reader, format Format) (*Spec, error) {
	var out Spec
	switch format {
	case YAML:
		if err := yaml.NewDecoder(f).Decode(&out); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		if _, err := toml.NewDecoder(f).Decode(&out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func LoadSpecFromFile(path string) (*Spec, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := parseSpec(f, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Spec.File == "" {
		base := filepath.Base(path)
		s.Spec.File = strings.TrimSuffix(base, filepath.Ext(base)) + ".fth"
	}
	if !filepath.IsAbs(s.Spec.File) {
		s.Spec.File = filepath.Clean(filepath.Join(filepath.Dir(path), s.Spec.File))
	}
	return s, nil
}

// BuildProperties compiles every property expression, sorted by name.
func (s *Spec) BuildProperties() ([]*Property, error) {
	var out []*Property
	for _, name := range sortedKeys(s.Properties) {
		ps := s.Properties[name]
		for _, kv := range []struct {
			kind PropertyKind
			expr string
		}{
			{Always, ps.Always},
			{Eventually, ps.Eventually},
			{EventuallyAlways, ps.EventuallyAlways},
			{AlwaysEventually, ps.AlwaysEventually},
		} {
			if kv.expr == "" {
				continue
			}
			p, err := NewProperty(name, kv.kind, kv.expr)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Spec) BuildExecutor() (*Executor, error) {
	props, err := s.BuildProperties()
	if err != nil {
		return nil, err
	}
	if s.Expect.Error != "" {
		if _, ok := ErrorByName(s.Expect.Error); !ok {
			return nil, fmt.Errorf("unknown expected error %q", s.Expect.Error)
		}
	}
	return &Executor{
		Spec:       s,
		Properties: props,
	}, nil
}
