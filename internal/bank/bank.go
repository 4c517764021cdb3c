// Package bank holds the frozen set of candidate statements that mutation
// may draw replacement/insertion material from — the "code bank" of
// spec §4.B. For this repository the bank is built from the single input
// program's own statement index (the only source of donor material
// available once the AST library is treated as an external collaborator),
// but the type is shaped so a multi-file bank can be substituted without
// changing any caller.
package bank

import (
	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/index"
)

// Bank is a read-only, shareable collection of statements available as
// mutation donor material, keyed by the identifier they had in their
// origin file's index.
type Bank struct {
	stmts map[cast.SID]*cast.Stmt
	ids   []cast.SID
}

// New builds a Bank from every statement idx knows about. The returned Bank
// is immutable: all of its methods are safe to call concurrently from
// multiple fitness-evaluation goroutines.
func New(idx *index.Index) *Bank {
	ids := idx.SIDs()
	b := &Bank{
		stmts: make(map[cast.SID]*cast.Stmt, len(ids)),
		ids:   ids,
	}
	for _, id := range ids {
		entry, ok := idx.Lookup(id)
		if !ok {
			continue
		}
		b.stmts[id] = entry.Stmt
	}
	return b
}

// Get returns the donor statement stored under id.
func (b *Bank) Get(id cast.SID) (*cast.Stmt, bool) {
	s, ok := b.stmts[id]
	return s, ok
}

// IDs returns every identifier available as donor material, in the same
// order the originating index discovered them.
func (b *Bank) IDs() []cast.SID {
	out := make([]cast.SID, len(b.ids))
	copy(out, b.ids)
	return out
}

// Len reports how many statements are available in the bank.
func (b *Bank) Len() int {
	return len(b.stmts)
}
