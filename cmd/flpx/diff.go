package main

import (
	"flag"
	"fmt"

	"github.com/samboyer/flpx"
	"github.com/samboyer/flpx/merge"
)

// runDiff implements `flpx diff <original> <a> <b>`: it diffs arrangement 0
// of each edited project against the original, merges the two change sets
// with the default conflict table, and prints a summary.
func runDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	arrIndex := fs.Int("arrangement", 0, "Index of the arrangement to diff.")
	fs.Parse(args)

	if fs.NArg() != 3 {
		return fmt.Errorf("diff: expected ORIGINAL, A and B arguments")
	}

	original, err := loadArrangement(fs.Arg(0), *arrIndex)
	if err != nil {
		return err
	}
	a, err := loadArrangement(fs.Arg(1), *arrIndex)
	if err != nil {
		return err
	}
	b, err := loadArrangement(fs.Arg(2), *arrIndex)
	if err != nil {
		return err
	}

	changesA := merge.Diff(original, a)
	changesB := merge.Diff(original, b)

	if _, err := merge.Merge(original, changesA, changesB); err != nil {
		return err
	}

	printDiffSummary(original, changesA, "a")
	printDiffSummary(original, changesB, "b")
	return nil
}

// printDiffSummary prints the counts and percentages of each change state
// found in changes, relative to original's item count.
func printDiffSummary(original *flpx.Arrangement, changes []merge.Change, label string) {
	var added, deleted, modified, moved int
	for _, c := range changes {
		switch c.State {
		case merge.Added:
			added++
		case merge.Deleted:
			deleted++
		case merge.Modified:
			modified++
		case merge.Moved:
			moved++
		}
	}

	numItems := len(original.Items)
	fmt.Printf("--- %s (%d items) ---\n", label, numItems)
	fmt.Printf("%d clips (%d%%) added\n", added, percent(added, numItems))
	fmt.Printf("%d clips (%d%%) deleted\n", deleted, percent(deleted, numItems))
	fmt.Printf("%d clips (%d%%) modified\n", modified, percent(modified, numItems))
	fmt.Printf("%d clips (%d%%) moved\n", moved, percent(moved, numItems))
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return (n*100 + total/2) / total // round to nearest, matching round()
}

func loadArrangement(path string, arrIndex int) (*flpx.Arrangement, error) {
	p, err := flpx.Open(path)
	if err != nil {
		return nil, err
	}
	if arrIndex < 0 || arrIndex >= len(p.Arrangements) {
		return nil, fmt.Errorf("%s: no arrangement %d (project has %d)", path, arrIndex, len(p.Arrangements))
	}
	return p.Arrangements[arrIndex], nil
}
