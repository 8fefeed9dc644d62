package track

import "testing"

func TestNextFreeName_FillsLowestGap(t *testing.T) {
	used := map[string]bool{"tseg001": true, "tseg002": true, "tseg004": true}
	got := nextFreeName(used, segmentPattern)
	if got != "tseg003" {
		t.Fatalf("expected tseg003, got %s", got)
	}
}

func TestNextFreeName_EmptySet(t *testing.T) {
	got := nextFreeName(map[string]bool{}, pointPattern)
	if got != "node001" {
		t.Fatalf("expected node001, got %s", got)
	}
}
