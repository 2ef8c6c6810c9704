package zschema_test

import (
	"errors"
	"reflect"
	"testing"

	z "github.com/reoring/zschema"
)

func TestPreset_Leaf(t *testing.T) {
	ipv4 := z.LeafType(z.KindIPv4Address, z.Examples("8.8.8.8"), z.Doc("an address"))
	a := ipv4.MustNew()
	b := ipv4.MustNew(z.Examples("1.1.1.1"), z.Required(true))

	if got := a.Attrs().Examples; !reflect.DeepEqual(got, []string{"8.8.8.8"}) {
		t.Fatalf("inherited examples %v", got)
	}
	if got := b.Attrs().Examples; !reflect.DeepEqual(got, []string{"1.1.1.1"}) {
		t.Fatalf("overridden examples %v", got)
	}
	if a.Attrs().Required || !b.Attrs().Required || b.Attrs().Doc != "an address" {
		t.Fatalf("attrs a=%+v b=%+v", a.Attrs(), b.Attrs())
	}
	if ipv4.Kind() != "IPv4Address" {
		t.Fatalf("kind %s", ipv4.Kind())
	}
}

func TestPreset_InstancesAreIndependent(t *testing.T) {
	cert := z.SubRecordType(z.Definition{z.Name("serial"): z.String()})
	a := cert.MustNew().(*z.SubRecord)
	b := cert.MustNew().(*z.SubRecord)
	if err := a.Set(z.Name("extra"), z.String()); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 1 {
		t.Fatalf("instances share a definition")
	}
	if c := cert.MustNew().(*z.SubRecord); c.Len() != 1 {
		t.Fatalf("preset definition mutated")
	}
}

func TestPreset_ListOf(t *testing.T) {
	list := z.ListOfType(nil, z.MaxItems(3))
	if _, err := list.New(); !errors.Is(err, z.ErrInvalidSchema) {
		t.Fatalf("unbound list preset built: %v", err)
	}
	bound, err := list.Of(z.String())
	if err != nil {
		t.Fatal(err)
	}
	n, err := bound.New()
	if err != nil {
		t.Fatal(err)
	}
	if l := n.(*z.ListOf); l.MaxItems() != 3 || l.Child().Kind() != "String" {
		t.Fatalf("list %+v", l)
	}
	if _, err := bound.Of(z.Boolean()); !errors.Is(err, z.ErrPositionalConflict) {
		t.Fatalf("expected ErrPositionalConflict, got %v", err)
	}
	if _, err := z.LeafType(z.KindString).Of(z.Boolean()); !errors.Is(err, z.ErrPositionalConflict) {
		t.Fatalf("expected ErrPositionalConflict for leaf preset, got %v", err)
	}
}

func TestPreset_NestedListAndWith(t *testing.T) {
	names := z.NestedListOfType(z.String(), "name").With(z.Category("dns"))
	n := names.MustNew()
	nl, ok := n.(*z.NestedListOf)
	if !ok || nl.SubrecordName() != "name" || nl.MaxItems() != z.DefaultNestedMaxItems {
		t.Fatalf("nested list %+v", n)
	}
	if nl.Attrs().Category != "dns" {
		t.Fatalf("category %q", nl.Attrs().Category)
	}
	if names.Kind() != "NestedListOf" {
		t.Fatalf("kind %s", names.Kind())
	}
}

func TestPreset_FaultyOptions(t *testing.T) {
	if _, err := z.LeafType(z.KindString, z.ProtoIndex(-1)).New(); !errors.Is(err, z.ErrInvalidSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}
