package docsrc

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format selects the stream syntax.
type Format int

const (
	FormatJSON Format = iota // one or more JSON values, e.g. JSON lines
	FormatYAML               // "---" separated YAML documents
)

// FormatFor picks the format from a file name; anything but .yaml/.yml is JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Reader yields the documents of a stream in order.
type Reader interface {
	// Next returns io.EOF after the last document.
	Next() (Document, error)
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, f Format, opts Options) Reader {
	if f == FormatYAML {
		return newYAMLReader(r, opts)
	}
	return &jsonReader{src: NewTokenSource(r), opts: opts}
}

type jsonReader struct {
	src  TokenSource
	opts Options
	n    int
}

func (j *jsonReader) Next() (Document, error) {
	doc, err := Decode(j.src, j.opts)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, io.EOF
		}
		return Document{}, fmt.Errorf("document %d: %w", j.n, err)
	}
	doc.Index = j.n
	j.n++
	return doc, nil
}

// ReadAll drains r.
func ReadAll(r Reader) ([]Document, error) {
	var out []Document
	for {
		d, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, d)
	}
}
