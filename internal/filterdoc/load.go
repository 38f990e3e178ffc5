package filterdoc

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

//go:embed schema.cue
var schemaSource string

// Format is the syntax of a filter document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatCUE
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCUE:
		return "cue"
	default:
		return "yaml"
	}
}

// ParseFormat resolves a format from its name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "cue":
		return FormatCUE, nil
	}
	return FormatYAML, errors.Newf("unknown document format %q (want yaml, json or cue)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	}
	return FormatYAML, errors.Wrapf(errors.ErrInvalidDocument,
		"unsupported document extension %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path))
}

// Loader reads filter documents. The zero value is ready to use.
type Loader struct {
	Logger *zap.Logger
}

// Load reads the document at path with a default Loader and builds its
// tree.
func Load(path string) (cond.Connectable, error) {
	return (&Loader{}).Load(path)
}

// Load reads the document at path and builds its tree.
func (l *Loader) Load(path string) (cond.Connectable, error) {
	doc, err := l.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := doc.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return tree, nil
}

// ReadFile decodes the document at path without building it.
func (l *Loader) ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read filter document")
	}
	doc, err := l.decode(data, format, path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return doc, nil
}

// Decode checks data against the document schema and decodes it.
func (l *Loader) Decode(data []byte, format Format) (*Document, error) {
	return l.decode(data, format, "")
}

func (l *Loader) decode(data []byte, format Format, source string) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, "compile document schema")
	}

	var v cue.Value
	switch format {
	case FormatCUE:
		name := source
		if name == "" {
			name = "document.cue"
		}
		v = ctx.CompileBytes(data, cue.Filename(name))
	default:
		raw, err := decodeYAML(data)
		if err != nil {
			return nil, err
		}
		v = ctx.Encode(raw)
	}
	if err := v.Err(); err != nil {
		return nil, invalidCUE(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Document")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, invalidCUE(err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, invalidCUE(err)
	}

	if l.Logger != nil {
		l.Logger.Debug("decoded filter document",
			zap.String("source", source),
			zap.Stringer("format", format),
			zap.String("name", doc.Name))
	}
	return &doc, nil
}

// decodeYAML reads a single YAML (or JSON) document into plain Go values.
func decodeYAML(data []byte) (any, error) {
	var raw any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(errors.ErrInvalidDocument, "empty document")
		}
		return nil, errors.Wrapf(errors.ErrInvalidDocument, "parse YAML: %v", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.Wrap(errors.ErrInvalidDocument, "expected a single YAML document")
	}
	return raw, nil
}

func invalidCUE(err error) error {
	msg := strings.TrimSpace(cueerrors.Details(err, nil))
	return errors.Wrapf(errors.ErrInvalidDocument, "%s", msg)
}
