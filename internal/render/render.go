// Package render draws documentation trees for terminals.
package render

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/reoring/zschema"
)

// Options controls the text output.
type Options struct {
	Color bool
}

type styles struct {
	key, typ, flag, doc, enum lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		key:  lipgloss.NewStyle().Bold(true),
		typ:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		flag: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		doc:  lipgloss.NewStyle().Faint(true),
		enum: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Tree builds a tree for docs, one root per entry in name order.
func Tree(docs map[string]zschema.DocNode, opts Options) *tree.Tree {
	st := newStyles(opts.Color)
	t := tree.New()
	for _, name := range slices.Sorted(maps.Keys(docs)) {
		t.Child(node(name, docs[name], st))
	}
	return t
}

// Text renders docs as an indented tree.
func Text(docs map[string]zschema.DocNode, opts Options) string {
	return Tree(docs, opts).String()
}

func node(key string, n zschema.DocNode, st styles) any {
	l := label(key, n, st)
	if len(n.Fields) == 0 {
		return l
	}
	t := tree.Root(l).Enumerator(tree.RoundedEnumerator)
	for _, k := range slices.Sorted(maps.Keys(n.Fields)) {
		t.Child(node(k, n.Fields[k], st))
	}
	return t
}

func label(key string, n zschema.DocNode, st styles) string {
	typ := n.Type
	if n.DetailType != "" && n.DetailType != n.Type {
		typ += " (" + n.DetailType + ")"
	}
	if n.Repeated {
		typ = "repeated " + typ
	}
	parts := []string{st.key.Render(key), st.typ.Render(typ)}
	if n.Required {
		parts = append(parts, st.flag.Render("required"))
	}
	if n.Category != "" {
		parts = append(parts, "["+n.Category+"]")
	}
	if len(n.Values) > 0 {
		parts = append(parts, st.enum.Render("{"+strings.Join(n.Values, "|")+"}"))
	}
	if n.Doc != "" {
		parts = append(parts, st.doc.Render("# "+n.Doc))
	}
	return strings.Join(parts, " ")
}
