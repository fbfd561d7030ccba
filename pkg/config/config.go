// Package config loads cabinet spec files. TOML, YAML and the Lisp spec
// language are supported; the format is chosen by file extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/engine"
	"github.com/chazu/carcass/pkg/style"
)

// Format is a spec file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatLisp Format = "lisp"
)

// FormatFor picks the format from a file name's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".lisp", ".zy":
		return FormatLisp, nil
	default:
		return "", fmt.Errorf("config: unsupported spec file %q (want .toml, .yaml, .yml, .lisp or .zy)", filepath.Base(path))
	}
}

// Preview holds presentation settings for the file's scenes.
type Preview struct {
	Style string `toml:"style" yaml:"style"`
}

// File is a decoded spec file.
type File struct {
	Path     string
	Format   Format
	Cabinets []cabinet.Spec
	Preview  Preview
}

// Preset resolves the preview style name to a presentation bundle. An
// empty name is the default bundle.
func (f *File) Preset() (style.Presentation, error) {
	p, ok := style.Lookup(f.Preview.Style)
	if !ok {
		return style.Presentation{}, fmt.Errorf("config: unknown preview style %q (want one of %s)",
			f.Preview.Style, strings.Join(style.Names(), ", "))
	}
	return p, nil
}

// Evaluator turns Lisp spec source into cabinet specs.
type Evaluator interface {
	Evaluate(source string) ([]cabinet.Spec, []engine.EvalError, error)
}

type options struct {
	eval Evaluator
}

// Option configures Load and Decode.
type Option func(*options)

// WithEvaluator sets the evaluator for Lisp sources. The default is a
// fresh engine.Engine.
func WithEvaluator(e Evaluator) Option {
	return func(o *options) { o.eval = e }
}

// Load reads and decodes the spec file at path.
func Load(path string, opts ...Option) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Decode(bytes.NewReader(data), format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	f.Path = path
	return f, nil
}

// Decode reads a spec document in the given format. A document that
// declares no cabinets is an error.
func Decode(r io.Reader, format Format, opts ...Option) (*File, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		f   *File
		err error
	)
	switch format {
	case FormatTOML:
		f, err = decodeTOML(r)
	case FormatYAML:
		f, err = decodeYAML(r)
	case FormatLisp:
		if o.eval == nil {
			o.eval = engine.NewEngine()
		}
		f, err = decodeLisp(r, o.eval)
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(f.Cabinets) == 0 {
		return nil, fmt.Errorf("config: no cabinets declared")
	}
	f.Format = format
	return f, nil
}

type tomlDoc struct {
	Cabinets []cabinet.Spec `toml:"cabinet"`
	Preview  Preview        `toml:"preview"`
}

func decodeTOML(r io.Reader) (*File, error) {
	var doc tomlDoc
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("config: parse toml: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown toml keys: %s", strings.Join(names, ", "))
	}
	return &File{Cabinets: doc.Cabinets, Preview: doc.Preview}, nil
}

type yamlDoc struct {
	Cabinets []cabinet.Spec `yaml:"cabinets"`
	Preview  Preview        `yaml:"preview"`
}

func decodeYAML(r io.Reader) (*File, error) {
	var doc yamlDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return &File{Cabinets: doc.Cabinets, Preview: doc.Preview}, nil
}

func decodeLisp(r io.Reader, eval Evaluator) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	specs, evalErrs, err := eval.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, ee := range evalErrs {
			errs[i] = ee
		}
		return nil, fmt.Errorf("config: evaluate: %w", errors.Join(errs...))
	}
	return &File{Cabinets: specs}, nil
}
