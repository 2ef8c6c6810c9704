package docsrc_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/internal/docsrc"
)

func TestDecodeBytes_Values(t *testing.T) {
	doc, err := docsrc.DecodeBytes([]byte(`{"ip": 2379511809, "tags": ["a", null], "ok": true, "f": 1.5}`), docsrc.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"ip":   json.Number("2379511809"),
		"tags": []any{"a", nil},
		"ok":   true,
		"f":    json.Number("1.5"),
	}
	if !reflect.DeepEqual(doc.Value, want) {
		t.Fatalf("got %#v", doc.Value)
	}
}

func TestDecodeBytes_EmptyArrayIsNotNull(t *testing.T) {
	doc, err := docsrc.DecodeBytes([]byte(`{"a": []}`), docsrc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if arr, ok := doc.Value.(map[string]any)["a"].([]any); !ok || arr == nil {
		t.Fatalf("empty array decoded as %#v", doc.Value)
	}
}

func TestDecodeBytes_TrailingAndEmpty(t *testing.T) {
	if _, err := docsrc.DecodeBytes([]byte(`{} {}`), docsrc.Options{}); !errors.Is(err, docsrc.ErrSyntax) {
		t.Fatalf("trailing value accepted: %v", err)
	}
	if _, err := docsrc.DecodeBytes([]byte(``), docsrc.Options{}); !errors.Is(err, docsrc.ErrSyntax) {
		t.Fatalf("empty input accepted: %v", err)
	}
	if _, err := docsrc.DecodeBytes([]byte(`{"a": `), docsrc.Options{}); err == nil {
		t.Fatalf("truncated input accepted")
	}
}

func TestDecodeBytes_Duplicates(t *testing.T) {
	in := []byte(`{"a": {"b": 1, "b": 2}}`)

	_, err := docsrc.DecodeBytes(in, docsrc.Options{})
	var de *docsrc.DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "b" || de.Path.Pointer() != "/a" {
		t.Fatalf("expected duplicate error at /a, got %v", err)
	}
	if !errors.Is(err, docsrc.ErrDuplicateKey) {
		t.Fatalf("errors.Is failed")
	}

	doc, err := docsrc.DecodeBytes(in, docsrc.Options{Duplicates: docsrc.DupWarn})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Duplicates) != 1 || doc.Duplicates[0].Key != "b" {
		t.Fatalf("duplicates %v", doc.Duplicates)
	}
	if got := doc.Value.(map[string]any)["a"].(map[string]any)["b"]; got != json.Number("2") {
		t.Fatalf("last value should win, got %v", got)
	}

	doc, err = docsrc.DecodeBytes(in, docsrc.Options{Duplicates: docsrc.DupIgnore})
	if err != nil || len(doc.Duplicates) != 0 {
		t.Fatalf("ignore: %v %v", err, doc.Duplicates)
	}
}

func TestDecodeBytes_Depth(t *testing.T) {
	in := []byte(`{"a": {"b": [1]}}`)
	if _, err := docsrc.DecodeBytes(in, docsrc.Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3: %v", err)
	}
	_, err := docsrc.DecodeBytes(in, docsrc.Options{MaxDepth: 2})
	if !errors.Is(err, docsrc.ErrTooDeep) || !strings.Contains(err.Error(), "/a/b") {
		t.Fatalf("expected ErrTooDeep at /a/b, got %v", err)
	}
	deep := strings.Repeat("[", zschema.DefaultMaxDepth+1) + strings.Repeat("]", zschema.DefaultMaxDepth+1)
	if _, err := docsrc.DecodeBytes([]byte(deep), docsrc.Options{}); !errors.Is(err, docsrc.ErrTooDeep) {
		t.Fatalf("default limit not applied: %v", err)
	}
}

func TestReader_JSONLines(t *testing.T) {
	in := "{\"a\": 1}\n{\"a\": 2}\n\n[3]\n"
	docs, err := docsrc.ReadAll(docsrc.NewReader(strings.NewReader(in), docsrc.FormatJSON, docsrc.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 || docs[2].Index != 2 {
		t.Fatalf("docs %+v", docs)
	}
	if !reflect.DeepEqual(docs[2].Value, []any{json.Number("3")}) {
		t.Fatalf("third %#v", docs[2].Value)
	}
}

func TestReader_YAML(t *testing.T) {
	in := "ip: 10\nname: host\nwhen: 2016-01-02T03:04:05Z\n---\ntags: [a, b]\nnothing: ~\n"
	docs, err := docsrc.ReadAll(docsrc.NewReader(strings.NewReader(in), docsrc.FormatYAML, docsrc.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs %d", len(docs))
	}
	first := docs[0].Value.(map[string]any)
	if first["ip"] != int64(10) || first["when"] != "2016-01-02T03:04:05Z" {
		t.Fatalf("first %#v", first)
	}
	second := docs[1].Value.(map[string]any)
	if !reflect.DeepEqual(second, map[string]any{"tags": []any{"a", "b"}, "nothing": nil}) {
		t.Fatalf("second %#v", second)
	}
}

func TestReader_YAMLDuplicate(t *testing.T) {
	r := docsrc.NewReader(strings.NewReader("meta:\n  name: a\n  name: b\n"), docsrc.FormatYAML, docsrc.Options{})
	_, err := r.Next()
	var de *docsrc.DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "name" || de.Line != 3 || de.Path.Pointer() != "/meta" {
		t.Fatalf("expected duplicate at line 3, got %v", err)
	}
}

func TestReader_YAMLAliases(t *testing.T) {
	in := "base: &b {port: 443}\nuse: *b\n"
	docs, err := docsrc.ReadAll(docsrc.NewReader(strings.NewReader(in), docsrc.FormatYAML, docsrc.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"port": int64(443)}
	if got := docs[0].Value.(map[string]any)["use"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("alias value %#v", got)
	}
}

func TestReader_YAMLAliasExpansion(t *testing.T) {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 9; i++ {
		ref := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref+", ", 8), ", "))
	}
	_, err := docsrc.ReadAll(docsrc.NewReader(strings.NewReader(b.String()), docsrc.FormatYAML, docsrc.Options{}))
	if !errors.Is(err, docsrc.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFormatFor(t *testing.T) {
	if docsrc.FormatFor("docs.YML") != docsrc.FormatYAML || docsrc.FormatFor("docs.jsonl") != docsrc.FormatJSON {
		t.Fatalf("format detection")
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := docsrc.ParseDuplicatePolicy("warn")
	if err != nil || p != docsrc.DupWarn {
		t.Fatalf("warn: %v %v", p, err)
	}
	if _, err := docsrc.ParseDuplicatePolicy("maybe"); err == nil {
		t.Fatalf("bad policy accepted")
	}
}
