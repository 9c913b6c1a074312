// Package diff renders classic unified patches (---/+++ headers, @@ hunks)
// for attribute listings, via github.com/pmezard/go-difflib/difflib.
package diff

import (
	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation.
type Options struct {
	// Context is the number of context lines per hunk. 0 means 3.
	Context int
}

// Unified produces a unified patch for the line listings a -> b. Inputs are
// plain lines without trailing newlines.
func Unified(aName, bName string, a, b []string, opt Options) (string, error) {
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}
	u := difflib.UnifiedDiff{
		A:        withNL(a),
		B:        withNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	return difflib.GetUnifiedDiffString(u)
}

// Appeared produces a patch introducing the entire listing b, with an empty
// "from" side.
func Appeared(bName string, b []string, opt Options) (string, error) {
	return Unified("/dev/null", bName, nil, b, opt)
}

// Vanished produces a patch deleting the entire listing a.
func Vanished(aName string, a []string, opt Options) (string, error) {
	return Unified(aName, "/dev/null", a, nil, opt)
}

func withNL(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
