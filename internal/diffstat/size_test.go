package diffstat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSize_IdenticalFilesIsZero(t *testing.T) {
	a := writeTemp(t, "a.c", "int main() { return 0; }\n")
	b := writeTemp(t, "b.c", "int main() { return 0; }\n")

	n, err := Size(context.Background(), a, b)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestSize_DifferingFilesIsPositive(t *testing.T) {
	a := writeTemp(t, "a.c", "int main() { return 0; }\n")
	b := writeTemp(t, "b.c", "int main() { return 1; }\n")

	n, err := Size(context.Background(), a, b)
	require.NoError(t, err)
	require.Greater(t, n, 0)
}
