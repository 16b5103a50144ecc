package track

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a git-style unified diff between two versions of
// one file.
func unifiedDiff(file, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + file,
		ToFile:   "b/" + file,
		Context:  3,
	})
}
