package decl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrDeclaration wraps every problem found in a declaration file.
var ErrDeclaration = errors.New("decl: invalid declaration")

// Format is the syntax of a declaration file.
type Format int

const (
	YAML Format = iota
	JSON
)

// FormatFor picks the format from a file extension; .json is JSON, anything
// else YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

var validate = validator.New()

// Parse decodes and checks a declaration. Unknown attributes are rejected.
func Parse(data []byte, f Format) (*File, error) {
	var file File
	switch f {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeclaration, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrDeclaration, err)
		}
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeclaration, err)
	}
	return &file, nil
}

// Load reads and parses a declaration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decl: read %s: %w", path, err)
	}
	f, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Marshal encodes a declaration.
func Marshal(f *File, format Format, indent string) ([]byte, error) {
	if format == JSON {
		if indent == "" {
			return json.Marshal(f)
		}
		return json.MarshalIndent(f, "", indent)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
