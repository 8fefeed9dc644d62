package track

import "fmt"

// nextFreeName returns the lowest-numbered name (starting at 1) produced by
// pattern that is not already present in used. Names are assigned this way
// when the caller does not supply one, matching the store's "lowest free
// index" allocation rule.
func nextFreeName(used map[string]bool, pattern func(int) string) string {
	for i := 1; ; i++ {
		name := pattern(i)
		if !used[name] {
			return name
		}
	}
}

func segmentPattern(i int) string { return fmt.Sprintf("tseg%03d", i) }
func pointPattern(i int) string   { return fmt.Sprintf("node%03d", i) }
func trainPattern(i int) string   { return fmt.Sprintf("train%d", i) }
