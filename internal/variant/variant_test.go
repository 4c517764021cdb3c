package variant

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tombrewsviews/genprog-code/internal/bank"
	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/edit"
	"github.com/tombrewsviews/genprog-code/internal/index"
)

func gcdFile() (*cast.File, *index.Index, *bank.Bank) {
	f := &cast.File{
		Name: "gcd.c",
		Root: &cast.Stmt{Kind: cast.Block{Stmts: []*cast.Stmt{
			{Kind: cast.InstrList{Instrs: []string{"int r = a % b"}}},
			{Kind: cast.InstrList{Instrs: []string{"a = b"}}},
			{Kind: cast.InstrList{Instrs: []string{"b = r"}}},
		}}},
	}
	idx := index.Build(f)
	return f, idx, bank.New(idx)
}

// TestEmptyHistoryIdentity exercises spec Property 4: a variant with empty
// history emits source byte-identical to the baseline printer's output.
func TestEmptyHistoryIdentity(t *testing.T) {
	f, idx, bk := gcdFile()
	v := New(f, idx, bk, nil)

	got, err := v.EmitSource()
	require.NoError(t, err)
	require.Equal(t, cast.Print(f, cast.Identity), got)
}

func TestDeleteRemovesStatementFromOutput(t *testing.T) {
	f, idx, bk := gcdFile()
	v := New(f, idx, bk, nil)

	ids := idx.SIDs()
	v.Delete(ids[1])

	got, err := v.EmitSource()
	require.NoError(t, err)
	require.NotContains(t, got, "int r = a % b")
}

func TestCloneIsIndependentOfParentHistory(t *testing.T) {
	f, idx, bk := gcdFile()
	parent := New(f, idx, bk, nil)
	ids := idx.SIDs()

	child := parent.Clone()
	child.Delete(ids[1])

	require.Equal(t, 0, parent.History.Len())
	require.Equal(t, 1, child.History.Len())

	parentSrc, err := parent.EmitSource()
	require.NoError(t, err)
	require.Contains(t, parentSrc, "int r = a % b")
}

func TestGetReflectsPendingSwap(t *testing.T) {
	f, idx, bk := gcdFile()
	v := New(f, idx, bk, nil)
	ids := idx.SIDs()
	a, b := ids[1], ids[2]

	v.Swap(a, b)

	kindAtA, err := v.Get(a)
	require.NoError(t, err)
	require.Equal(t, cast.InstrList{Instrs: []string{"a = b"}}, kindAtA)
}

func TestReplaceSubatomMakesEmitSourceFatal(t *testing.T) {
	f, idx, bk := gcdFile()
	v := New(f, idx, bk, nil)
	ids := idx.SIDs()

	v.ReplaceSubatom(ids[1])

	_, err := v.EmitSource()
	require.Error(t, err)
}

func TestDedupPathKeepsFirstOccurrence(t *testing.T) {
	path := []PathStep{
		{SID: 1, Prob: 1.0},
		{SID: 2, Prob: 0.5},
		{SID: 1, Prob: 0.9},
	}
	got := DedupPath(path)
	require.Equal(t, []PathStep{{SID: 1, Prob: 1.0}, {SID: 2, Prob: 0.5}}, got)
}

func TestSetHistoryReplacesWholesale(t *testing.T) {
	f, idx, bk := gcdFile()
	v := New(f, idx, bk, nil)
	ids := idx.SIDs()

	v.Delete(ids[1])
	require.Equal(t, 1, v.History.Len())

	v.SetHistory(edit.Empty)
	require.Equal(t, 0, v.History.Len())
}
