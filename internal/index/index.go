// Package index builds the frozen, read-only statement index every variant
// in a run shares: a map from statement identifier to the statement and its
// parent, built once by walking the original tree.
package index

import "github.com/tombrewsviews/genprog-code/internal/cast"

// Entry is one statement index record.
type Entry struct {
	Stmt   *cast.Stmt
	Parent *cast.Stmt // nil for the tree root
}

// Index is a read-only, concurrency-safe-by-construction view over a
// File's statements, keyed by identifier. It is built once per input file
// and shared by every variant and every goroutine evaluating them: nothing
// in it is ever mutated after Build returns.
type Index struct {
	entries map[cast.SID]Entry
	order   []cast.SID
}

// Build walks f and assigns identifiers to every statement, starting at 1
// (0 is cast.NoSID, reserved for statements synthesized later by a
// transform). Identifiers are assigned in pre-order, which makes them
// stable across repeated Build calls on the same tree and is required for
// the fault-localization weighting in §4.H to line up with the original
// source's line order.
func Build(f *cast.File) *Index {
	idx := &Index{entries: make(map[cast.SID]Entry)}
	next := cast.SID(1)
	parents := map[*cast.Stmt]*cast.Stmt{f.Root: nil}

	cast.Walk(f.Root, cast.WalkFunc{
		Pre: func(s *cast.Stmt) bool {
			s.ID = next
			idx.entries[s.ID] = Entry{Stmt: s, Parent: parents[s]}
			idx.order = append(idx.order, s.ID)
			next++
			for _, child := range s.Kind.Children() {
				parents[child] = s
			}
			return true
		},
	})

	return idx
}

// Lookup returns the entry for id, and whether it was found.
func (idx *Index) Lookup(id cast.SID) (Entry, bool) {
	e, ok := idx.entries[id]
	return e, ok
}

// Kind returns the statement kind currently recorded at id in the frozen
// tree (i.e. ignoring any edit history), and whether id is indexed at all.
func (idx *Index) Kind(id cast.SID) (cast.Kind, bool) {
	e, ok := idx.entries[id]
	if !ok {
		return nil, false
	}
	return e.Stmt.Kind, true
}

// SIDs returns every indexed identifier in pre-order discovery order.
func (idx *Index) SIDs() []cast.SID {
	out := make([]cast.SID, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len returns the number of indexed statements.
func (idx *Index) Len() int {
	return len(idx.entries)
}
