package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// GatherAllPaths walks path for files ending in one of exts. A maxNum of 0
// means no limit.
func GatherAllPaths(path string, maxNum int, exts ...string) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if maxNum != 0 && len(res) >= maxNum {
			return filepath.SkipAll
		}
		lower := strings.ToLower(s)
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				res = append(res, s)
				break
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

func GatherAllWavPaths(path string, maxNum int) ([]string, error) {
	return GatherAllPaths(path, maxNum, ".wav", ".wave")
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}
