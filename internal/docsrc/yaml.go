package docsrc

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/zschema"
)

// yamlReader decodes a multi-document YAML stream through yaml.Node so that
// repeated keys are caught with their line.
type yamlReader struct {
	dec  *yaml.Decoder
	opts Options
	n    int
}

func newYAMLReader(r io.Reader, opts Options) *yamlReader {
	return &yamlReader{dec: yaml.NewDecoder(r), opts: opts}
}

func (y *yamlReader) Next() (Document, error) {
	var root yaml.Node
	if err := y.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, io.EOF
		}
		return Document{}, errors.Join(ErrSyntax, err)
	}
	c := &yamlConv{
		opts:   y.opts,
		max:    y.opts.maxDepth(),
		budget: max(minAliasBudget, aliasFactor*countNodes(&root)),
	}
	var v any
	if len(root.Content) > 0 {
		var err error
		if v, err = c.node(root.Content[0], zschema.Path{}); err != nil {
			return Document{}, err
		}
	}
	doc := Document{Value: v, Duplicates: c.dups, Index: y.n}
	y.n++
	return doc, nil
}

type yamlConv struct {
	opts   Options
	max    int
	dups   []Duplicate
	nodes  int // nodes built, aliased copies included
	budget int
}

// minAliasBudget is the node count any document may reach through aliases.
// Beyond it a document may not build more than aliasFactor times the nodes
// it spells out.
const (
	minAliasBudget = 100_000
	aliasFactor    = 16
)

// countNodes counts the nodes of a tree without following aliases.
func countNodes(n *yaml.Node) int {
	c := 1
	for _, ch := range n.Content {
		c += countNodes(ch)
	}
	return c
}

func (c *yamlConv) node(n *yaml.Node, path zschema.Path) (any, error) {
	c.nodes++
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.node(n.Content[0], path)
	case yaml.AliasNode:
		if c.nodes > c.budget {
			return nil, fmt.Errorf("%w: at %s after %d nodes", ErrTooLarge, path.Pointer(), c.nodes)
		}
		return c.node(n.Alias, path)
	case yaml.MappingNode:
		if len(path) >= c.max {
			return nil, fmt.Errorf("%w: at %s (max %d)", ErrTooDeep, path.Pointer(), c.max)
		}
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if _, dup := m[k.Value]; dup {
				d := Duplicate{Path: path, Key: k.Value, Line: k.Line}
				switch c.opts.Duplicates {
				case DupError:
					return nil, &DuplicateKeyError{Duplicate: d}
				case DupWarn:
					c.dups = append(c.dups, d)
				}
			}
			val, err := c.node(v, path.Key(k.Value))
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		if len(path) >= c.max {
			return nil, fmt.Errorf("%w: at %s (max %d)", ErrTooDeep, path.Pointer(), c.max)
		}
		arr := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := c.node(item, path.Index(i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

// scalar resolves a YAML scalar to a JSON-like value. Timestamps stay text.
func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		if b, ok := new(big.Int).SetString(n.Value, 0); ok {
			return b
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
