// Package variant implements the candidate-repair representation: a frozen
// code bank handle, a statement index, a fault-localisation weighted path,
// and the variant's own edit history. A variant never mutates the bank; it
// owns only its history, and renders source by compiling that history into a
// cast.Xform on demand.
package variant

import (
	"fmt"

	"github.com/tombrewsviews/genprog-code/internal/bank"
	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/edit"
	"github.com/tombrewsviews/genprog-code/internal/index"
	"github.com/tombrewsviews/genprog-code/internal/transform"
)

// PathStep is one entry of a weighted execution path: a statement identifier
// together with the probability scaling mutation likelihood there.
type PathStep struct {
	Prob float64
	SID  cast.SID
}

// DedupPath removes later duplicate sids from path, keeping the first
// occurrence and its probability, preserving order. The spec requires a
// weighted path be deduplicated before use; later entries for an already-seen
// sid contribute nothing new, since a sid's mutation probability is a
// property of the sid, not of how many times it was logged on the path.
func DedupPath(path []PathStep) []PathStep {
	seen := make(map[cast.SID]bool, len(path))
	out := make([]PathStep, 0, len(path))
	for _, step := range path {
		if seen[step.SID] {
			continue
		}
		seen[step.SID] = true
		out = append(out, step)
	}
	return out
}

// Variant is a candidate repair: the original AST (via a shared code bank
// entry and its statement index) plus the ordered edit history that, applied
// just-in-time, produces this variant's source.
type Variant struct {
	File    *cast.File
	Index   *index.Index
	Bank    *bank.Bank
	Path    []PathStep
	History edit.History
}

// New builds the root variant (empty history) for a single-file repair run.
func New(f *cast.File, idx *index.Index, bk *bank.Bank, path []PathStep) *Variant {
	return &Variant{
		File:  f,
		Index: idx,
		Bank:  bk,
		Path:  DedupPath(path),
	}
}

// Clone returns a new Variant sharing this one's code bank, index, and path,
// with an independent copy of its history. Mutation and crossover operators
// start from Clone and then append edits to the result, never to the parent.
func (v *Variant) Clone() *Variant {
	return &Variant{
		File:    v.File,
		Index:   v.Index,
		Bank:    v.Bank,
		Path:    v.Path,
		History: v.History,
	}
}

// Delete appends a Delete(sid) edit to v's history.
func (v *Variant) Delete(sid cast.SID) {
	v.History = v.History.WithAtom(edit.Delete(sid))
}

// Append appends an Append(target, source) edit to v's history.
func (v *Variant) Append(target, source cast.SID) {
	v.History = v.History.WithAtom(edit.Append(target, source))
}

// Swap appends a Swap(a, b) edit to v's history.
func (v *Variant) Swap(a, b cast.SID) {
	v.History = v.History.WithAtom(edit.Swap(a, b))
}

// Put appends a Put(sid, kind) edit to v's history.
func (v *Variant) Put(sid cast.SID, kind cast.Kind) {
	v.History = v.History.WithAtom(edit.Put(sid, kind))
}

// ReplaceSubatom records the intent to perform a finer-grained edit this
// AST cannot express. It is accepted here (other representations may act on
// the recorded intent) but makes the variant fatal to print: EmitSource and
// Get both fail once one of these is present in the history.
func (v *Variant) ReplaceSubatom(sid cast.SID) {
	v.History = v.History.WithAtom(edit.Atom{Op: edit.OpReplaceSubatom, Target: sid})
}

// SetHistory replaces v's history wholesale with h.
func (v *Variant) SetHistory(h edit.History) {
	v.History = h
}

// xform compiles v's current history into a cast.Xform against its index.
func (v *Variant) xform() (cast.Xform, error) {
	return transform.Build(v.History, v.Index)
}

// Get computes the post-edit statement kind visible at sid. Fatal (returns
// an error) if sid is not indexed in the first place.
func (v *Variant) Get(sid cast.SID) (cast.Kind, error) {
	entry, ok := v.Index.Lookup(sid)
	if !ok {
		return nil, fmt.Errorf("variant: sid %d is not in the statement index", sid)
	}
	xform, err := v.xform()
	if err != nil {
		return nil, err
	}
	resolved := xform.Resolve(entry.Stmt)
	return resolved.Kind, nil
}

// EmitSource streams v's file through the pretty-printer with this
// variant's history installed as a transform, yielding the candidate's
// complete source text.
func (v *Variant) EmitSource() (string, error) {
	xform, err := v.xform()
	if err != nil {
		return "", err
	}
	return cast.Print(v.File, xform), nil
}
