package ir

import "fmt"

type Kind int

const (
	DocumentKind Kind = iota
	SectionKind
	TableArrayKind
	HeaderKind
	AssignmentKind
	CommentKind
	BlankKind
	IntegerKind
	FloatKind
	BoolKind
	NullKind
	StringKind
	FStringKind
	ScopedVarKind
	FoldedKind
	ArrayKind
	InlineTableKind
	ListCompKind
	DictCompKind
	TableCompKind
)

var kindNames = map[Kind]string{
	DocumentKind:    "Document",
	SectionKind:     "Section",
	TableArrayKind:  "TableArray",
	HeaderKind:      "Header",
	AssignmentKind:  "Assignment",
	CommentKind:     "Comment",
	BlankKind:       "Blank",
	IntegerKind:     "Integer",
	FloatKind:       "Float",
	BoolKind:        "Bool",
	NullKind:        "Null",
	StringKind:      "String",
	FStringKind:     "FString",
	ScopedVarKind:   "ScopedVar",
	FoldedKind:      "Folded",
	ArrayKind:       "Array",
	InlineTableKind: "InlineTable",
	ListCompKind:    "ListComp",
	DictCompKind:    "DictComp",
	TableCompKind:   "TableComp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsLiteral reports whether k is a literal scalar.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntegerKind, FloatKind, BoolKind, NullKind, StringKind:
		return true
	}
	return false
}

// IsComputed reports whether nodes of kind k get a value computed by
// resolution.
func (k Kind) IsComputed() bool {
	switch k {
	case FStringKind, ScopedVarKind, FoldedKind, ListCompKind, DictCompKind, TableCompKind:
		return true
	}
	return false
}

func (k Kind) IsComprehension() bool {
	switch k {
	case ListCompKind, DictCompKind, TableCompKind:
		return true
	}
	return false
}

func (k Kind) IsSection() bool {
	return k == SectionKind || k == TableArrayKind
}

func (k Kind) IsContainer() bool {
	switch k {
	case DocumentKind, SectionKind, TableArrayKind, AssignmentKind, ArrayKind, InlineTableKind:
		return true
	}
	return false
}

// IsValue reports whether k may appear as the value of an assignment.
func (k Kind) IsValue() bool {
	return k.IsLiteral() || k.IsComputed() || k == ArrayKind || k == InlineTableKind
}
