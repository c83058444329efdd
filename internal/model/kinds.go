package model

type ClassKind int

const (
	KindClass ClassKind = iota // export class
	KindEnum                   // export enum
)

func (k ClassKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// RelationKind is the cardinality of a relation, fixed by the parser from the
// relation call it recognised.
type RelationKind int

const (
	ToOne RelationKind = iota
	ToMany
)

func (k RelationKind) String() string {
	switch k {
	case ToMany:
		return "to-many"
	default:
		return "to-one"
	}
}

// IsCollection reports whether members built from this relation hold many values.
func (k RelationKind) IsCollection() bool {
	return k == ToMany
}
