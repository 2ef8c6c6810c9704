package zschema

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const protoHeader = "syntax = \"proto3\";\npackage schema;\n\nimport \"google/protobuf/timestamp.proto\";\n\n"

// protoPart is a compiled field: the declaration text and, for anonymous
// messages, the nested message definition that precedes it.
type protoPart struct {
	message string
	field   string
}

// protoState tracks the top-level messages of one compilation.
type protoState struct {
	order    []string
	messages map[string]string
	title    cases.Caser
}

func newProtoState() *protoState {
	return &protoState{messages: map[string]string{}, title: cases.Title(language.Und)}
}

func (st *protoState) add(name, def string) {
	if _, ok := st.messages[name]; ok {
		return
	}
	st.order = append(st.order, name)
	st.messages[name] = def
}

// messageName keeps mixed-case names and title-cases the underscore-separated
// words of lowercase ones.
func (st *protoState) messageName(s string) string {
	if s != strings.ToLower(s) {
		return s
	}
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = st.title.String(p)
	}
	return strings.Join(parts, "")
}

func protoIndent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

// Proto renders the record as a proto3 file with a top-level message named
// after name. Every field not marked ProtoIgnore needs a ProtoIndex.
func (r *Record) Proto(name string) (string, error) {
	st := newProtoState()
	if _, err := r.SubRecord.protoMessage(name, name, st); err != nil {
		return "", err
	}
	defs := make([]string, 0, len(st.order))
	for _, n := range st.order {
		defs = append(defs, st.messages[n])
	}
	return protoHeader + strings.Join(defs, "\n"), nil
}

func (s *SubRecord) proto(k Key, st *protoState) (protoPart, error) {
	if err := checkName("proto", k); err != nil {
		return protoPart{}, err
	}
	return s.protoMessage(k.BigQueryKey(), s.typeName, st)
}

func (s *SubRecord) protoMessage(field, typeName string, st *protoState) (protoPart, error) {
	anon := typeName == ""
	msgType := st.messageName(typeName)
	if anon {
		msgType = st.messageName(field) + "Struct"
	}
	part := protoPart{field: msgType + " " + field}
	if _, done := st.messages[msgType]; done && !anon {
		return part, nil
	}

	type entry struct {
		index int
		part  protoPart
	}
	var entries []entry
	for _, k := range sortedKeys(s.def) {
		child := s.def[k]
		a := child.Attrs()
		if a.ProtoIgnore {
			continue
		}
		if a.ProtoIndex == 0 {
			return protoPart{}, &SchemaError{Op: "proto", Key: k.String(), Err: ErrProtoIndex, Msg: "in message " + msgType}
		}
		p, err := child.proto(k, st)
		if err != nil {
			return protoPart{}, err
		}
		entries = append(entries, entry{index: a.ProtoIndex, part: p})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	lines := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		if e.part.message != "" {
			lines = append(lines, e.part.message)
		}
		lines = append(lines, fmt.Sprintf("%s = %d;", e.part.field, e.index))
	}
	def := "message " + msgType + " {\n" + protoIndent(strings.Join(lines, "\n")) + "\n}"
	if anon {
		part.message = def
	} else {
		st.add(msgType, def)
	}
	return part, nil
}
