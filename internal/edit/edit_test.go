package edit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tombrewsviews/genprog-code/internal/cast"
)

func TestWithAtomDoesNotAliasParent(t *testing.T) {
	h1 := Empty.WithAtom(Delete(1))
	h2 := h1.WithAtom(Delete(2))

	require.Equal(t, 1, h1.Len())
	require.Equal(t, 2, h2.Len())
	require.Equal(t, []Atom{Delete(1)}, h1.Atoms())
}

func TestConcatPreservesOrderAndDoesNotMutateOperands(t *testing.T) {
	h1 := Empty.WithAtom(Delete(1))
	h2 := Empty.WithAtom(Swap(2, 3))

	merged := h1.Concat(h2)

	require.Equal(t, []Atom{Delete(1), Swap(2, 3)}, merged.Atoms())
	require.Equal(t, 1, h1.Len())
	require.Equal(t, 1, h2.Len())
}

func TestAtomsReturnsACopy(t *testing.T) {
	h := Empty.WithAtom(Delete(1))
	atoms := h.Atoms()
	atoms[0] = Delete(999)
	require.Equal(t, []Atom{Delete(1)}, h.Atoms())
}

func TestOpStringCoversAllOps(t *testing.T) {
	cases := map[Op]string{
		OpDelete:         "Delete",
		OpAppend:         "Append",
		OpSwap:           "Swap",
		OpPut:            "Put",
		OpReplaceSubatom: "Replace_Subatom",
		OpCrossover:      "Crossover",
	}
	for op, want := range cases {
		require.Equal(t, want, op.String())
	}
}

func TestPutRecordsLiteralKind(t *testing.T) {
	k := cast.Return{Expr: "1"}
	a := Put(5, k)
	require.Equal(t, OpPut, a.Op)
	require.Equal(t, cast.SID(5), a.Target)
	require.Equal(t, k, a.Kind)
}
