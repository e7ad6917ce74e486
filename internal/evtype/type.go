package evtype

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TypeKind tags the variant a Type node represents.
type TypeKind uint8

const (
	TypeNone TypeKind = iota
	TypeBool
	TypeInt
	TypeUint
	TypeDouble
	TypeDuration
	TypeTime
	TypeString
	TypeIP
	TypeSubnet
	TypeEnum
	TypeList
	TypeMap
	TypeRecord
	TypeAlias
)

func (k TypeKind) String() string {
	switch k {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "integer"
	case TypeUint:
		return "unsigned"
	case TypeDouble:
		return "double"
	case TypeDuration:
		return "duration"
	case TypeTime:
		return "time"
	case TypeString:
		return "string"
	case TypeIP:
		return "ip"
	case TypeSubnet:
		return "subnet"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeRecord:
		return "record"
	case TypeAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Field is one ordered field of a record Type.
type Field struct {
	Name string
	Type Type
}

// Type is the tagged schema node described in §3.1: scalar kinds, enum,
// list<Type>, map<Type,Type>, record of ordered fields, and alias(name,
// Type). Every Type carries an optional Name and Attributes, the way the
// teacher's planner/query types carry optional metadata maps.
type Type struct {
	Kind       TypeKind
	Name       string
	Attributes map[string]string

	EnumVariants []string // TypeEnum
	Elem         *Type    // TypeList
	MapKey       *Type    // TypeMap
	MapValue     *Type    // TypeMap
	Fields       []Field  // TypeRecord
	Aliased      *Type    // TypeAlias
}

// Attribute looks up a named attribute.
func (t Type) Attribute(name string) (string, bool) {
	if t.Attributes == nil {
		return "", false
	}
	v, ok := t.Attributes[name]
	return v, ok
}

// resolved follows TypeAlias chains to the underlying structural type,
// the way a record leaf's "effective" type is what predicates compare
// against.
func (t Type) resolved() Type {
	for t.Kind == TypeAlias && t.Aliased != nil {
		t = *t.Aliased
	}
	return t
}

// Resolved is the exported form of resolved, for callers outside this
// package that need the effective (alias-stripped) type, e.g. operator
// compatibility checks.
func (t Type) Resolved() Type {
	return t.resolved()
}

// Normalized strips Name and Attributes recursively, leaving only
// structural content — used as the field_synopses sentinel's
// type_synopses lookup key (§3.5) and by Congruent.
func (t Type) Normalized() Type {
	n := Type{Kind: t.Kind}
	switch t.Kind {
	case TypeEnum:
		n.EnumVariants = append([]string(nil), t.EnumVariants...)
	case TypeList:
		if t.Elem != nil {
			e := t.Elem.Normalized()
			n.Elem = &e
		}
	case TypeMap:
		if t.MapKey != nil {
			k := t.MapKey.Normalized()
			n.MapKey = &k
		}
		if t.MapValue != nil {
			v := t.MapValue.Normalized()
			n.MapValue = &v
		}
	case TypeRecord:
		n.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			n.Fields[i] = Field{Name: f.Name, Type: f.Type.Normalized()}
		}
	case TypeAlias:
		if t.Aliased != nil {
			a := t.Aliased.Normalized()
			n.Aliased = &a
		}
	}
	return n
}

// Congruent reports whether two types are structurally equal, ignoring
// names and attributes (§3.1).
func Congruent(a, b Type) bool {
	return a.Normalized().structuralEqual(b.Normalized())
}

func (t Type) structuralEqual(o Type) bool {
	ar, or := t.resolved(), o.resolved()
	if ar.Kind != or.Kind {
		return false
	}
	switch ar.Kind {
	case TypeEnum:
		if len(ar.EnumVariants) != len(or.EnumVariants) {
			return false
		}
		for i := range ar.EnumVariants {
			if ar.EnumVariants[i] != or.EnumVariants[i] {
				return false
			}
		}
		return true
	case TypeList:
		if ar.Elem == nil || or.Elem == nil {
			return ar.Elem == or.Elem
		}
		return ar.Elem.structuralEqual(*or.Elem)
	case TypeMap:
		if (ar.MapKey == nil) != (or.MapKey == nil) || (ar.MapValue == nil) != (or.MapValue == nil) {
			return false
		}
		if ar.MapKey != nil && !ar.MapKey.structuralEqual(*or.MapKey) {
			return false
		}
		if ar.MapValue != nil && !ar.MapValue.structuralEqual(*or.MapValue) {
			return false
		}
		return true
	case TypeRecord:
		if len(ar.Fields) != len(or.Fields) {
			return false
		}
		for i := range ar.Fields {
			if ar.Fields[i].Name != or.Fields[i].Name || !ar.Fields[i].Type.structuralEqual(or.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Fingerprint is a stable hash of the type's full content (structure, name,
// and attributes), used to test schema identity without string comparison
// (§3.1, used by MetaExtractor.SchemaId in §4.1).
func (t Type) Fingerprint() uint64 {
	h := xxhash.New()
	t.writeFingerprint(h)
	return h.Sum64()
}

func (t Type) writeFingerprint(h *xxhash.Digest) {
	_, _ = h.WriteString(t.Kind.String())
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(t.Name)
	_, _ = h.WriteString("\x00")
	if len(t.Attributes) > 0 {
		keys := make([]string, 0, len(t.Attributes))
		for k := range t.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = h.WriteString(k)
			_, _ = h.WriteString("=")
			_, _ = h.WriteString(t.Attributes[k])
			_, _ = h.WriteString(";")
		}
	}
	_, _ = h.WriteString("\x00")
	switch t.Kind {
	case TypeEnum:
		_, _ = h.WriteString(strings.Join(t.EnumVariants, ","))
	case TypeList:
		if t.Elem != nil {
			t.Elem.writeFingerprint(h)
		}
	case TypeMap:
		if t.MapKey != nil {
			t.MapKey.writeFingerprint(h)
		}
		if t.MapValue != nil {
			t.MapValue.writeFingerprint(h)
		}
	case TypeRecord:
		for _, f := range t.Fields {
			_, _ = h.WriteString(f.Name)
			_, _ = h.WriteString(":")
			f.Type.writeFingerprint(h)
		}
	case TypeAlias:
		if t.Aliased != nil {
			t.Aliased.writeFingerprint(h)
		}
	}
}

// Leaf is one (qualified dotted name, leaf type) pair yielded by Leaves.
type Leaf struct {
	QualifiedName string
	Type          Type
}

// Leaves returns the depth-first leaves of a record type: every
// non-record field, named by its dotted path from the record root. A
// non-record type yields itself as the single leaf with an empty name.
func (t Type) Leaves() []Leaf {
	var out []Leaf
	t.collectLeaves("", &out)
	return out
}

func (t Type) collectLeaves(prefix string, out *[]Leaf) {
	r := t.resolved()
	if r.Kind != TypeRecord {
		*out = append(*out, Leaf{QualifiedName: prefix, Type: t})
		return
	}
	for _, f := range r.Fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		f.Type.collectLeaves(name, out)
	}
}
