package track

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestFileStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.railsim")

	n := &Network{Store: NewFileStore(path)}
	a, _ := n.CreateSegment("a")
	b, _ := n.CreateSegment("b")
	c, _ := n.CreateSegment("c")
	if err := n.Connect(a.Name(), EndB, b.Name(), EndA); err != nil {
		t.Fatalf("connect a-b: %v", err)
	}
	if err := n.Connect(a.Name(), EndB, c.Name(), EndA); err != nil {
		t.Fatalf("connect a-c: %v", err)
	}
	n.AddSignal(a.Name(), EndA)
	n.PlaceTrain("t1", b.Name(), EndA)

	other := &Network{Store: NewFileStore(path)}
	if err := other.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	segs := other.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	gotA, ok := other.Segment("a")
	if !ok {
		t.Fatal("expected segment a to round-trip")
	}
	if gotA.Signal(EndA) == nil {
		t.Fatal("expected signal at a.A to round-trip")
	}

	// Binding c's A end into slot 3 of the junction must default its
	// switch to left, exactly as Connect does when growing it live.
	junctions := other.AllJunctions()
	if len(junctions) != 1 || junctions[0].SwitchState() != SwitchLeft {
		t.Fatalf("expected junction switch state to round-trip as left, got %+v", junctions)
	}

	// Trains are not part of the persisted format: a reload starts with
	// none, regardless of what was placed before saving.
	if len(other.Trains()) != 0 {
		t.Fatalf("expected no trains after reload, got %d", len(other.Trains()))
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.railsim"))
	_, found, err := store.Load()
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if found {
		t.Fatal("expected found=false for a missing file")
	}
}

func TestFileStore_RejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.railsim")
	store := NewFileStore(path)
	if err := store.Save(Snapshot{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Overwrite with a malformed line directly.
	writeFile(t, path, "not-a-real-line\n")

	_, _, err := store.Load()
	if err == nil {
		t.Fatal("expected format-error on a malformed line")
	}
	if kind, _ := KindOf(err); kind != KindFormatError {
		t.Fatalf("expected format-error, got %v", err)
	}
}
