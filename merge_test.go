package zschema_test

import (
	"errors"
	"testing"

	z "github.com/reoring/zschema"
)

func TestMerge_Recursive(t *testing.T) {
	a := z.MustSubRecord(z.Definition{
		z.Name("a"): z.String(),
		z.Name("sub"): z.MustSubRecord(z.Definition{
			z.Name("x"): z.Boolean(),
		}),
	}, z.Doc("left"))
	b := z.MustSubRecord(z.Definition{
		z.Name("b"): z.String(),
		z.Name("sub"): z.MustSubRecord(z.Definition{
			z.Name("y"): z.Boolean(),
		}, z.Required(true)),
	}, z.Doc("right"), z.Required(true))

	m, err := a.Merge(b)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 || !m.Attrs().Required || m.Attrs().Doc != "left" {
		t.Fatalf("merged attrs %+v len %d", m.Attrs(), m.Len())
	}
	sub, ok := m.Get(z.Name("sub"))
	if !ok {
		t.Fatal("sub missing")
	}
	s := sub.(*z.SubRecord)
	if s.Len() != 2 || !s.Attrs().Required {
		t.Fatalf("sub merged badly: len %d attrs %+v", s.Len(), s.Attrs())
	}
	if a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("inputs mutated")
	}
	orig, _ := a.Get(z.Name("sub"))
	if orig.(*z.SubRecord).Len() != 1 {
		t.Fatalf("input child mutated")
	}
}

func TestMerge_Conflicts(t *testing.T) {
	a := z.MustSubRecord(z.Definition{z.Name("k"): z.String()})
	cases := map[string]*z.SubRecord{
		"same leaf":  z.MustSubRecord(z.Definition{z.Name("k"): z.String()}),
		"other type": z.MustSubRecord(z.Definition{z.Name("k"): z.MustSubRecord(nil)}),
	}
	for name, b := range cases {
		_, err := a.Merge(b)
		if !errors.Is(err, z.ErrMergeConflict) {
			t.Fatalf("%s: expected ErrMergeConflict, got %v", name, err)
		}
		var mc *z.MergeConflictError
		if !errors.As(err, &mc) || mc.Key != "k" {
			t.Fatalf("%s: conflict detail %v", name, err)
		}
	}
}

func TestMerge_Nil(t *testing.T) {
	a := z.MustSubRecord(z.Definition{z.Name("k"): z.String()})
	m, err := a.Merge(nil)
	if err != nil || m.Len() != 1 || m == a {
		t.Fatalf("merge nil: %v", err)
	}
}

func TestExtends_Chain(t *testing.T) {
	base := z.MustRecord(z.Definition{
		z.Name("id"): z.String(z.Required(true)),
		z.Name("meta"): z.MustSubRecord(z.Definition{
			z.Name("source"): z.String(),
		}),
	})
	mid := z.MustSubRecord(z.Definition{
		z.Name("name"): z.String(),
		z.Name("meta"): z.MustSubRecord(z.Definition{
			z.Name("updated_at"): z.DateTime(),
		}),
	}, z.Extends(base))
	top := z.MustRecord(z.Definition{
		z.Name("tags"): z.MustListOf(z.String()),
	}, z.Extends(mid))

	keys := top.Keys()
	want := []string{"id", "meta", "name", "tags"}
	if len(keys) != len(want) {
		t.Fatalf("keys %v", keys)
	}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Fatalf("keys %v", keys)
		}
	}
	meta, _ := top.Get(z.Name("meta"))
	if meta.(*z.SubRecord).Len() != 2 {
		t.Fatalf("meta not merged through the chain")
	}
	doc := map[string]any{
		"id":   "x",
		"meta": map[string]any{"source": "scan", "updated_at": "2020-01-01T00:00:00Z"},
		"tags": []any{"a"},
	}
	if err := top.Validate(doc); err != nil {
		t.Fatal(err)
	}
	if base.Len() != 2 {
		t.Fatalf("extends source mutated")
	}
}

func TestExtends_Conflict(t *testing.T) {
	base := z.MustSubRecord(z.Definition{z.Name("id"): z.String()})
	_, err := z.NewRecord(z.Definition{z.Name("id"): z.Signed64BitInteger()}, z.Extends(base))
	if !errors.Is(err, z.ErrMergeConflict) {
		t.Fatalf("expected ErrMergeConflict, got %v", err)
	}
}
