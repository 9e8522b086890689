package main

import "strings"

// TypeKind enumerates the checker's value-type tags. Stack is itself a
// tagged value (see StackKind) rather than a separate family, so a stack of
// stacks type-checks the same way any other nesting would.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindBool
	KindChar
	KindString
	KindGeneric
	KindUnion
	KindStack
)

// Type is the checker's value type: a tagged union carrying only the
// payload its Kind uses. Generic carries the tag name ("#a"); Union carries
// its member list; Stack carries a StackKind.
type Type struct {
	Kind    TypeKind
	Generic string
	Members []Type
	Stack   StackKind
}

func Int() Type    { return Type{Kind: KindInt} }
func Float() Type  { return Type{Kind: KindFloat} }
func Bool() Type   { return Type{Kind: KindBool} }
func Char() Type   { return Type{Kind: KindChar} }
func String() Type { return Type{Kind: KindString} }

func Generic(tag string) Type { return Type{Kind: KindGeneric, Generic: tag} }
func Union(members ...Type) Type {
	return Type{Kind: KindUnion, Members: members}
}
func StackOf(sk StackKind) Type { return Type{Kind: KindStack, Stack: sk} }

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindGeneric:
		return t.Generic
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, "|")
	case KindStack:
		return "stack[" + t.Stack.String() + "]"
	default:
		return "?"
	}
}

// StackKindTag distinguishes the three shapes a stack type can take.
type StackKindTag int

const (
	StackExact StackKindTag = iota
	StackMany
	StackUnknown
)

// StackKind is the payload of a Stack type: a known-length tuple of
// element types (Exact), an arbitrary-length run of one element type
// (Many), or a fully opaque stack segment (Unknown, used for the prefix an
// ellipses function leaves untouched).
type StackKind struct {
	Tag     StackKindTag
	Exact   []Type
	Element *Type
}

func ExactStack(elems ...Type) StackKind { return StackKind{Tag: StackExact, Exact: elems} }
func ManyStack(elem Type) StackKind      { return StackKind{Tag: StackMany, Element: &elem} }
func UnknownStack() StackKind            { return StackKind{Tag: StackUnknown} }

func (sk StackKind) String() string {
	switch sk.Tag {
	case StackExact:
		parts := make([]string, len(sk.Exact))
		for i, t := range sk.Exact {
			parts[i] = t.String()
		}
		return strings.Join(parts, ",")
	case StackMany:
		return sk.Element.String() + "..."
	case StackUnknown:
		return "?"
	default:
		return "?"
	}
}

// isMatching reports whether a concrete value of type got satisfies a
// requirement of type expect. It is asymmetric: unions and the opaque
// Unknown stack may appear only on the expect side, never the got side,
// matching how a declared parameter is allowed to be permissive while an
// actual value must be concrete.
func isMatching(got, expect Type) bool {
	if expect.Kind == KindUnion {
		for _, m := range expect.Members {
			if isMatching(got, m) {
				return true
			}
		}
		return false
	}
	if got.Kind == KindUnion {
		return false
	}
	if got.Kind == KindStack && expect.Kind == KindStack {
		return stackMatching(got.Stack, expect.Stack)
	}
	if got.Kind != expect.Kind {
		return false
	}
	if got.Kind == KindGeneric {
		return got.Generic == expect.Generic
	}
	return true
}

func stackMatching(got, expect StackKind) bool {
	switch expect.Tag {
	case StackUnknown:
		return true
	case StackMany:
		switch got.Tag {
		case StackUnknown:
			return false
		case StackMany:
			return isMatching(*got.Element, *expect.Element)
		case StackExact:
			for _, e := range got.Exact {
				if !isMatching(e, *expect.Element) {
					return false
				}
			}
			return true
		}
	case StackExact:
		switch got.Tag {
		case StackExact:
			if len(got.Exact) != len(expect.Exact) {
				return false
			}
			for i := range got.Exact {
				if !isMatching(got.Exact[i], expect.Exact[i]) {
					return false
				}
			}
			return true
		case StackMany:
			for _, y := range expect.Exact {
				if !isMatching(*got.Element, y) {
					return false
				}
			}
			return true
		case StackUnknown:
			return false
		}
	}
	return false
}

// substituteGeneric walks ts, replacing every occurrence of Generic(tag)
// with replacement. It is used both to propagate a generic learned from an
// actual argument across the rest of the abstract stack, and to specialize
// the remaining args/rets of the signature being applied.
func substituteGeneric(ts []Type, tag string, replacement Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = substituteGenericOne(t, tag, replacement)
	}
	return out
}

func substituteGenericOne(t Type, tag string, replacement Type) Type {
	switch t.Kind {
	case KindGeneric:
		if t.Generic == tag {
			return replacement
		}
		return t
	case KindUnion:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = substituteGenericOne(m, tag, replacement)
		}
		return Type{Kind: KindUnion, Members: members}
	case KindStack:
		sk := t.Stack
		switch sk.Tag {
		case StackMany:
			elem := substituteGenericOne(*sk.Element, tag, replacement)
			return StackOf(ManyStack(elem))
		case StackExact:
			return StackOf(ExactStack(substituteGeneric(sk.Exact, tag, replacement)...))
		}
		return t
	default:
		return t
	}
}

// surfaceToType maps a parsed TypeSig to its checker type. A name starting
// with '#' is a generic tag; any other unrecognized name is the caller's
// error to raise as a CheckError, since the set of primitive names is
// closed.
func surfaceToType(sig TypeSig) (Type, bool) {
	if sig.IsStack {
		elem, ok := surfaceToType(TypeSig{Name: sig.Name})
		if !ok {
			return Type{}, false
		}
		return StackOf(ManyStack(elem)), true
	}
	if strings.HasPrefix(sig.Name, "#") {
		return Generic(sig.Name), true
	}
	switch sig.Name {
	case "int":
		return Int(), true
	case "float":
		return Float(), true
	case "bool":
		return Bool(), true
	case "char":
		return Char(), true
	case "string":
		return String(), true
	default:
		return Type{}, false
	}
}
