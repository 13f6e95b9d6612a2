package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 16 << 10
)

// seedSources returns the *.ir files under the repository testdata plus a
// few inline modules.
func seedSources() [][]byte {
	seeds := [][]byte{
		{},
		[]byte("func @f(%x: i32) {\n  ret i32 %x\n}\n"),
		[]byte("func @f(%x: i8) {\n  %y = mul i8 %x, 6\n  %z = sdiv i8 %y, 3\n  ret i8 %z\n}\n"),
	}
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return seeds
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ir" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		seeds = append(seeds, clampSeed(src))
		return nil
	})
	return seeds
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func addSeeds(f *testing.F, args ...any) {
	for _, src := range seedSources() {
		f.Add(append([]any{src}, args...)...)
	}
}
