package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tombrewsviews/genprog-code/internal/cast"
)

func TestSaveAndLoadASTRoundTrips(t *testing.T) {
	f := &cast.File{
		Name: "gcd.c",
		Root: &cast.Stmt{Kind: cast.Block{Stmts: []*cast.Stmt{
			{Kind: cast.InstrList{Instrs: []string{"a = 1"}}},
			{Kind: cast.If{Cond: "a > 0", Then: &cast.Stmt{Kind: cast.Return{Expr: "a"}}}},
		}}},
	}

	path := filepath.Join(t.TempDir(), "f.ast")
	require.NoError(t, SaveAST(path, f))

	got, err := LoadAST(path)
	require.NoError(t, err)
	require.Equal(t, f.Name, got.Name)
	require.Equal(t, f.Root.Kind, got.Root.Kind)
}

func TestSaveAndLoadHTRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.ht")
	require.NoError(t, SaveHT(path, 17))

	count, err := LoadHT(path)
	require.NoError(t, err)
	require.Equal(t, 17, count)
}

func TestLoadPathAppliesGoodPathFactor(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "f.path")
	goodFile := filepath.Join(dir, "f.goodpath")

	require.NoError(t, os.WriteFile(pathFile, []byte("2\n3\n4\n"), 0o644))
	require.NoError(t, os.WriteFile(goodFile, []byte("3\n"), 0o644))

	steps, err := LoadPath(pathFile, goodFile, 0.1)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	require.Equal(t, 1.0, steps[0].Prob)
	require.Equal(t, 0.1, steps[1].Prob)
	require.Equal(t, 1.0, steps[2].Prob)
}

func TestLoadPathWithoutGoodPathFileDefaultsToFullProbability(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "f.path")
	require.NoError(t, os.WriteFile(pathFile, []byte("5\n6\n"), 0o644))

	steps, err := LoadPath(pathFile, "", 0.0)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	for _, s := range steps {
		require.Equal(t, 1.0, s.Prob)
	}
}

func TestLoadPathRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "f.path")
	require.NoError(t, os.WriteFile(pathFile, []byte("not-a-number\n"), 0o644))

	_, err := LoadPath(pathFile, "", 0.0)
	require.Error(t, err)
}
