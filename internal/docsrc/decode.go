package docsrc

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/zschema"
)

// Decode builds the next top-level value from src. Numbers decode as
// json.Number. It returns io.EOF when src is exhausted.
func Decode(src TokenSource, opts Options) (Document, error) {
	tok, err := src.NextToken()
	if err != nil {
		return Document{}, err
	}
	d := &decoder{src: src, opts: opts, max: opts.maxDepth()}
	v, err := d.value(tok, zschema.Path{})
	if err != nil {
		return Document{}, err
	}
	return Document{Value: v, Duplicates: d.dups}, nil
}

// DecodeBytes decodes exactly one value from b.
func DecodeBytes(b []byte, opts Options) (Document, error) {
	src := NewBytesSource(b)
	doc, err := Decode(src, opts)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("%w: empty input", ErrSyntax)
		}
		return Document{}, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: trailing data at offset %d", ErrSyntax, src.Location())
	}
	return doc, nil
}

type decoder struct {
	src  TokenSource
	opts Options
	max  int
	dups []Duplicate
}

func (d *decoder) next() (Token, error) {
	tok, err := d.src.NextToken()
	if errors.Is(err, io.EOF) {
		return tok, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (d *decoder) value(tok Token, path zschema.Path) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		if len(path) >= d.max {
			return nil, fmt.Errorf("%w: at %s (max %d)", ErrTooDeep, path.Pointer(), d.max)
		}
		return d.object(path)
	case KindBeginArray:
		if len(path) >= d.max {
			return nil, fmt.Errorf("%w: at %s (max %d)", ErrTooDeep, path.Pointer(), d.max)
		}
		return d.array(path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unexpected token at offset %d", ErrSyntax, tok.Offset)
}

func (d *decoder) object(path zschema.Path) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, fmt.Errorf("%w: expected key at offset %d", ErrSyntax, tok.Offset)
		}
		if _, dup := m[tok.String]; dup {
			if err := d.duplicate(Duplicate{Path: path, Key: tok.String}); err != nil {
				return nil, err
			}
		}
		vt, err := d.next()
		if err != nil {
			return nil, err
		}
		v, err := d.value(vt, path.Key(tok.String))
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (d *decoder) array(path zschema.Path) (any, error) {
	arr := []any{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, path.Index(len(arr)))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (d *decoder) duplicate(dup Duplicate) error {
	switch d.opts.Duplicates {
	case DupError:
		return &DuplicateKeyError{Duplicate: dup}
	case DupWarn:
		d.dups = append(d.dups, dup)
	}
	return nil
}
