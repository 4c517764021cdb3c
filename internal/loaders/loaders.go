// Package loaders reads the four input files a run bootstraps from, derived
// from a single stem F: F.ast (the serialised original AST), F.ht (the
// serialised statement count the AST was indexed against), F.path (the
// weighted execution path), and F.goodpath (an optional set of sids whose
// mutation probability should be reduced).
//
// The true upstream .ast/.ht formats are an opaque external binary this
// repository never sees; encoding/gob is used as a concrete stand-in so the
// repository is self-contained (see DESIGN.md Open Questions). The .path and
// .goodpath formats match spec.md §6 exactly: plain text, one sid per line.
package loaders

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

func init() {
	gob.Register(cast.Block{})
	gob.Register(cast.If{})
	gob.Register(cast.Loop{})
	gob.Register(cast.Return{})
	gob.Register(cast.InstrList{})
	gob.Register(cast.Empty{})
}

// LoadAST decodes a gob-encoded cast.File from path (the F.ast input).
func LoadAST(path string) (*cast.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: open %s: %w", path, err)
	}
	defer f.Close()

	var file cast.File
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("loaders: decode %s: %w", path, err)
	}
	return &file, nil
}

// SaveAST encodes file as gob to path, the inverse of LoadAST. Exported
// primarily so the same container format can be produced by tests and by
// any future offline bootstrap tool, without duplicating the gob.Register
// calls LoadAST relies on.
func SaveAST(path string, file *cast.File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loaders: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(file); err != nil {
		return fmt.Errorf("loaders: encode %s: %w", path, err)
	}
	return nil
}

// htContainer is the gob shape of F.ht: the statement count recorded when
// the AST was indexed offline, used only as a sanity check against the
// count this run's own index.Build produces from F.ast — the index itself
// is always rebuilt from the loaded AST so its statement pointers are valid
// against that exact tree, rather than deserialised independently.
type htContainer struct {
	Count int
}

// LoadHT decodes F.ht and returns the recorded statement count.
func LoadHT(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("loaders: open %s: %w", path, err)
	}
	defer f.Close()

	var c htContainer
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return 0, fmt.Errorf("loaders: decode %s: %w", path, err)
	}
	return c.Count, nil
}

// SaveHT encodes count as gob to path, the inverse of LoadHT.
func SaveHT(path string, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loaders: create %s: %w", path, err)
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(htContainer{Count: count})
}

// LoadPath reads F.path (one sid per line, probability 1.0) and, if
// goodPathFile is non-empty, F.goodpath (one sid per line); any path sid
// also present in the goodpath set gets probability goodPathFactor instead
// of 1.0, matching spec.md §6's parenthetical on F.path.
func LoadPath(pathFile, goodPathFile string, goodPathFactor float64) ([]variant.PathStep, error) {
	sids, err := readSIDLines(pathFile)
	if err != nil {
		return nil, err
	}

	goodSet := make(map[cast.SID]bool)
	if goodPathFile != "" {
		if _, err := os.Stat(goodPathFile); err == nil {
			good, err := readSIDLines(goodPathFile)
			if err != nil {
				return nil, err
			}
			for _, sid := range good {
				goodSet[sid] = true
			}
		}
	}

	steps := make([]variant.PathStep, 0, len(sids))
	for _, sid := range sids {
		prob := 1.0
		if goodSet[sid] {
			prob = goodPathFactor
		}
		steps = append(steps, variant.PathStep{SID: sid, Prob: prob})
	}
	return variant.DedupPath(steps), nil
}

func readSIDLines(path string) ([]cast.SID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: open %s: %w", path, err)
	}
	defer f.Close()

	var sids []cast.SID
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("loaders: %s: invalid sid %q: %w", path, line, err)
		}
		sids = append(sids, cast.SID(n))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loaders: reading %s: %w", path, err)
	}
	return sids, nil
}
