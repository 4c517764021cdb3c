// Package transform compiles an edit history into a cast.Xform: the
// just-in-time view a variant's statements are printed through, built once
// per variant rather than re-walked per statement.
package transform

import (
	"fmt"

	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/edit"
	"github.com/tombrewsviews/genprog-code/internal/index"
)

// Build folds h's atoms, in order, into an environment map from statement
// identifier to the kind that should be printed there. It deliberately does
// not walk the tree at print time to decide what an edit means — everything
// an edit can do is resolved once, here, against the frozen index, as a
// substitution keyed by sid: every edit kind, including Append, replaces
// what is printed *at* its target's own position, which is what makes the
// resulting Xform apply uniformly regardless of whether the target is a
// Block child, an If branch, or a Loop body (spec.md §4.C's fold applies
// the same way no matter where in the tree a sid's statement sits).
//
// Swap is folded by exchanging the two identifiers' current values in the
// environment map (falling back to the index's original kind the first
// time either side is touched), not by re-resolving both sides through the
// index on every application. That distinction matters: two consecutive
// identical Swap(a, b) atoms must cancel back to the original program
// (Property 6), and they only do if the second Swap sees the first Swap's
// result rather than independently re-deriving both sides from the
// untouched index.
//
// Append clones the *original*, index-frozen kind at Source — the code
// bank is immutable donor material, so a prior edit to Source does not
// change what a later Append of it inserts — and replaces Target's entry
// with a synthetic Block holding the statement currently at Target followed
// by the clone (spec.md §4.C: "produce a with kind being a block { a;
// a_with_kind(copy_of_y) }"). Both the carried-over statement and the clone
// get cast.NoSID so that a later edit folded against the same Target
// replaces this whole Block wholesale (last write wins, per the fold order),
// and so that visiting the clone during printing never re-matches it
// against an edit meant for its donor sid.
func Build(h edit.History, idx *index.Index) (cast.Xform, error) {
	env := make(map[cast.SID]cast.Kind)

	currentKind := func(sid cast.SID) cast.Kind {
		if k, ok := env[sid]; ok {
			return k
		}
		if k, ok := idx.Kind(sid); ok {
			return k
		}
		return cast.Empty{}
	}

	for _, a := range h.Atoms() {
		switch a.Op {
		case edit.OpDelete:
			env[a.Target] = cast.Empty{}

		case edit.OpPut:
			env[a.Target] = a.Kind

		case edit.OpSwap:
			ka := currentKind(a.Target)
			kb := currentKind(a.Source)
			env[a.Target] = kb
			env[a.Source] = ka

		case edit.OpAppend:
			srcKind, ok := idx.Kind(a.Source)
			if !ok {
				return cast.Xform{}, fmt.Errorf("transform: append source sid %d is not indexed", a.Source)
			}
			env[a.Target] = cast.Block{Stmts: []*cast.Stmt{
				{ID: cast.NoSID, Kind: currentKind(a.Target)},
				{ID: cast.NoSID, Kind: srcKind},
			}}

		case edit.OpReplaceSubatom, edit.OpCrossover:
			return cast.Xform{}, fmt.Errorf("transform: %s is a reserved edit op and fatal on apply", a.Op)

		default:
			return cast.Xform{}, fmt.Errorf("transform: unknown edit op %v", a.Op)
		}
	}

	resolve := func(s *cast.Stmt) *cast.Stmt {
		if s == nil || s.ID == cast.NoSID {
			return s
		}
		k, ok := env[s.ID]
		if !ok {
			return s
		}
		return &cast.Stmt{ID: s.ID, Kind: k}
	}

	return cast.Xform{Resolve: resolve}, nil
}
