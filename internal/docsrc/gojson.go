package docsrc

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind         frameKind
	expectingKey bool
}

// goJSONSource adapts a go-json Decoder to TokenSource. Numbers stay textual.
type goJSONSource struct {
	dec   *json.Decoder
	stack []frame
}

// NewTokenSource streams tokens from r. Several top-level values may follow
// each other, as in JSON lines.
func NewTokenSource(r io.Reader) TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &goJSONSource{dec: dec}
}

// NewBytesSource streams tokens from b.
func NewBytesSource(b []byte) TokenSource { return NewTokenSource(bytes.NewReader(b)) }

func (s *goJSONSource) Location() int64 { return s.dec.InputOffset() }

// valueDone flips the enclosing object back to expecting a key.
func (s *goJSONSource) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].kind == frameObject {
		s.stack[n-1].expectingKey = true
	}
}

func (s *goJSONSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *goJSONSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}
		return Token{}, errors.Join(ErrSyntax, err)
	}
	off := s.dec.InputOffset()
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: frameObject, expectingKey: true})
			return Token{Kind: KindBeginObject, Offset: off}, nil
		case '}':
			s.pop()
			return Token{Kind: KindEndObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: frameArray})
			return Token{Kind: KindBeginArray, Offset: off}, nil
		default:
			s.pop()
			return Token{Kind: KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].kind == frameObject && s.stack[n-1].expectingKey {
			s.stack[n-1].expectingKey = false
			return Token{Kind: KindKey, String: v, Offset: off}, nil
		}
		s.valueDone()
		return Token{Kind: KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return Token{Kind: KindBool, Bool: v, Offset: off}, nil
	case json.Number:
		s.valueDone()
		return Token{Kind: KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.valueDone()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	case nil:
		s.valueDone()
		return Token{Kind: KindNull, Offset: off}, nil
	}
	return Token{}, ErrSyntax
}
