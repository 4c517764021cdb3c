// Package edit defines the patch-based representation of a candidate
// program: an ordered history of edit atoms, applied against the frozen
// statement index at print time rather than against the AST directly.
package edit

import "github.com/tombrewsviews/genprog-code/internal/cast"

// Op identifies the shape of a single edit atom.
type Op int

const (
	// OpDelete replaces the statement at Target with an empty statement.
	OpDelete Op = iota
	// OpAppend inserts a clone of Source's statement directly after Target.
	OpAppend
	// OpSwap exchanges the statement kinds currently at Target and Source.
	OpSwap
	// OpPut replaces the statement at Target with a literal Kind value.
	OpPut
	// OpReplaceSubatom is reserved for a finer-grained, intra-statement edit
	// this repository's AST does not model (it has no sub-statement
	// expression tree). It is recorded like any other atom but is fatal if
	// a History containing one is ever applied.
	OpReplaceSubatom
	// OpCrossover is reserved and never constructed: crossover in this
	// system is history-level concatenation (see ga.Crossover), not an edit
	// atom. It exists in this enum only so Op is a complete, self-describing
	// sum type; transform.Build treats it as fatal, same as
	// OpReplaceSubatom, should one ever appear.
	OpCrossover
)

func (o Op) String() string {
	switch o {
	case OpDelete:
		return "Delete"
	case OpAppend:
		return "Append"
	case OpSwap:
		return "Swap"
	case OpPut:
		return "Put"
	case OpReplaceSubatom:
		return "Replace_Subatom"
	case OpCrossover:
		return "Crossover"
	default:
		return "Unknown"
	}
}

// Atom is a single edit operation. Which fields are meaningful depends on
// Op:
//
//	Delete(sid):            Target = sid
//	Append(target, source): Target = target, Source = source
//	Swap(a, b):             Target = a,      Source = b
//	Put(sid, kind):         Target = sid,    Kind = kind
type Atom struct {
	Op     Op
	Target cast.SID
	Source cast.SID
	Kind   cast.Kind
}

// Delete builds an atom that removes the statement at sid (replacing it
// with Empty when applied).
func Delete(sid cast.SID) Atom {
	return Atom{Op: OpDelete, Target: sid}
}

// Append builds an atom that inserts a clone of source's statement
// immediately after target when applied.
func Append(target, source cast.SID) Atom {
	return Atom{Op: OpAppend, Target: target, Source: source}
}

// Swap builds an atom that exchanges the statement kinds at a and b when
// applied. Two consecutive identical Swap(a, b) atoms cancel out.
func Swap(a, b cast.SID) Atom {
	return Atom{Op: OpSwap, Target: a, Source: b}
}

// Put builds an atom that replaces the statement at sid with a literal
// kind when applied.
func Put(sid cast.SID, kind cast.Kind) Atom {
	return Atom{Op: OpPut, Target: sid, Kind: kind}
}

// History is the ordered, append-only sequence of edits that together
// define a variant's difference from the baseline program. It is immutable
// from the caller's point of view: every mutating operation returns a new
// History so that sibling variants derived from the same parent can append
// divergent edits without aliasing each other's backing array.
type History struct {
	atoms []Atom
}

// Empty is a History with no edits, i.e. the baseline program.
var Empty = History{}

// WithAtom returns a new History equal to h with a appended.
func (h History) WithAtom(a Atom) History {
	atoms := make([]Atom, len(h.atoms)+1)
	copy(atoms, h.atoms)
	atoms[len(h.atoms)] = a
	return History{atoms: atoms}
}

// Concat returns a new History whose atoms are h's atoms followed by
// other's. It never constructs an OpCrossover atom; ga.Crossover does not
// call it, and instead appends Put atoms to each child's cloned history.
func (h History) Concat(other History) History {
	atoms := make([]Atom, len(h.atoms)+len(other.atoms))
	copy(atoms, h.atoms)
	copy(atoms[len(h.atoms):], other.atoms)
	return History{atoms: atoms}
}

// Atoms returns the edits in application order. The returned slice is a
// copy; callers must not rely on it aliasing the History's internal state.
func (h History) Atoms() []Atom {
	out := make([]Atom, len(h.atoms))
	copy(out, h.atoms)
	return out
}

// Len reports the number of edits recorded in h.
func (h History) Len() int {
	return len(h.atoms)
}
