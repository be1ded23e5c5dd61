package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func touch(t *testing.T, path string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestGatherAllWavPaths(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.wav"))
	touch(t, filepath.Join(dir, "b.WAV"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "nested", "c.wav"))

	got, err := GatherAllWavPaths(dir, 0)
	assert.NoError(err)
	assert.ElementsMatch([]string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.WAV"),
		filepath.Join(dir, "nested", "c.wav"),
	}, got)

	got, err = GatherAllWavPaths(dir, 2)
	assert.NoError(err)
	assert.Len(got, 2)

	_, err = GatherAllWavPaths(filepath.Join(dir, "missing"), 0)
	assert.Error(err)
}

func TestGetKeysIsSorted(t *testing.T) {
	assert.Equal(t, []string{"A", "C", "G"}, GetKeys(map[string]int{"G": 1, "A": 2, "C": 3}))
}

func TestNumbers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 7))
	assert.Equal(0.5, Clamp(0.5, 0, 1))
	assert.Equal(1.0, Clamp(3.0, 0, 1))
	assert.Equal(-1, Clamp(-4, -1, 1))
	assert.Equal(6, Sum([]int{1, 2, 3}))
	assert.InDelta(0.6, Sum([]float64{0.1, 0.2, 0.3}), 1e-12)
}
