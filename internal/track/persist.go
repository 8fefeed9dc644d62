package track

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Snapshot is a serializable copy of a Network's topology, independent of
// the live, mutex-guarded object graph. Store implementations only ever
// see Snapshot values, never *Network itself. Trains are not part of the
// persisted state: a reloaded network has its segments, points, and
// signals back, but no trains on them.
type Snapshot struct {
	Segments []SegmentRecord
}

// SegmentRecord describes one segment's two end bindings and signals.
type SegmentRecord struct {
	Name                 string
	HasPointA, HasPointB bool
	PointA, PointB       string
	SlotA, SlotB         Slot
	SignalA, SignalB     bool
}

// Store persists and restores Network snapshots. A nil Store on a Network
// disables persistence entirely.
type Store interface {
	Save(Snapshot) error
	// Load reports found=false (with a nil error) if nothing has been
	// saved yet.
	Load() (snap Snapshot, found bool, err error)
}

// snapshotLocked builds a Snapshot from live state. Caller must hold n.mu.
func (n *Network) snapshotLocked() Snapshot {
	var snap Snapshot
	for _, name := range n.segmentOrd {
		seg := n.segments[name]
		rec := SegmentRecord{Name: name}
		if p := seg.Point(EndA); p != nil {
			rec.HasPointA = true
			rec.PointA = p.name
			rec.SlotA = seg.Slot(EndA)
		}
		if p := seg.Point(EndB); p != nil {
			rec.HasPointB = true
			rec.PointB = p.name
			rec.SlotB = seg.Slot(EndB)
		}
		rec.SignalA = seg.Signal(EndA) != nil
		rec.SignalB = seg.Signal(EndB) != nil
		snap.Segments = append(snap.Segments, rec)
	}
	return snap
}

// restoreLocked rebuilds the live object graph from snap, replacing all
// current state. Caller must hold n.mu. Binding a segment end into a
// point's slot 3 always initializes that point's switch to left, exactly
// as connecting a third segment at runtime does: switch state is never
// itself part of the persisted record, only a function of which slot
// each binding lands in.
func (n *Network) restoreLocked(snap Snapshot) error {
	segments := make(map[string]*Segment, len(snap.Segments))
	segmentOrd := make([]string, 0, len(snap.Segments))
	points := make(map[string]*Point)
	var pointOrd []string

	getPoint := func(name string) *Point {
		if p, ok := points[name]; ok {
			return p
		}
		p := &Point{name: name}
		points[name] = p
		pointOrd = append(pointOrd, name)
		return p
	}

	for _, rec := range snap.Segments {
		if _, exists := segments[rec.Name]; exists {
			return newErr(KindNameCollision, "Load", rec.Name)
		}
		segments[rec.Name] = &Segment{name: rec.Name}
		segmentOrd = append(segmentOrd, rec.Name)
	}
	bindSlot := func(p *Point, slot Slot, seg *Segment, end End) {
		p.slots[slot] = &occupant{segment: seg, end: end}
		seg.binding[end] = &binding{point: p, slot: slot}
		if slot == Slot3 {
			p.switchState = SwitchLeft
		}
	}
	for _, rec := range snap.Segments {
		seg := segments[rec.Name]
		if rec.HasPointA {
			bindSlot(getPoint(rec.PointA), rec.SlotA, seg, EndA)
		}
		if rec.HasPointB {
			bindSlot(getPoint(rec.PointB), rec.SlotB, seg, EndB)
		}
		if rec.SignalA {
			seg.signal[EndA] = newSignal(seg, EndA)
		}
		if rec.SignalB {
			seg.signal[EndB] = newSignal(seg, EndB)
		}
	}

	n.segments, n.segmentOrd = segments, segmentOrd
	n.points, n.pointOrd = points, pointOrd
	n.trains, n.trainOrd = make(map[string]*Train), nil
	n.initialized = true

	allSegs := n.allSegmentsLocked()
	UpdateAllSignals(allSegs)
	return nil
}

// FileStore persists a Snapshot as a line-oriented text file, writing a
// temp file and renaming it into place so a crash mid-save never leaves a
// truncated file behind.
//
//	track: <name>,<weight>,<pointA>,<slotA>,<pointB>,<slotB>,sigA:<Y|N>,sigB:<Y|N>
//
// Unbound ends are written as "-,-" for point/slot; weight is always 1,
// carried for forward compatibility with a possible weighted variant.
// Trains are never written: the persisted format covers topology only.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (f *FileStore) Save(snap Snapshot) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".railsim-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, rec := range snap.Segments {
		pa, sa := "-", "-"
		if rec.HasPointA {
			pa, sa = rec.PointA, strconv.Itoa(int(rec.SlotA))
		}
		pb, sb := "-", "-"
		if rec.HasPointB {
			pb, sb = rec.PointB, strconv.Itoa(int(rec.SlotB))
		}
		fmt.Fprintf(w, "track: %s,1,%s,%s,%s,%s,sigA:%s,sigB:%s\n",
			rec.Name, pa, sa, pb, sb, yn(rec.SignalA), yn(rec.SignalB))
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.Path)
}

func (f *FileStore) Load() (Snapshot, bool, error) {
	file, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	defer file.Close()

	var snap Snapshot
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "track:") {
			return Snapshot{}, false, newErr(KindFormatError, "Load", "unrecognized line: "+line)
		}
		rec, err := parseTrackLine(strings.TrimSpace(strings.TrimPrefix(line, "track:")))
		if err != nil {
			return Snapshot{}, false, err
		}
		snap.Segments = append(snap.Segments, rec)
	}
	if err := sc.Err(); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func parseTrackLine(s string) (SegmentRecord, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 8 {
		return SegmentRecord{}, newErr(KindFormatError, "Load", "track line: want 8 fields, got "+strconv.Itoa(len(fields)))
	}
	rec := SegmentRecord{Name: fields[0]}
	if fields[2] != "-" {
		rec.HasPointA = true
		rec.PointA = fields[2]
		slot, err := strconv.Atoi(fields[3])
		if err != nil {
			return SegmentRecord{}, newErr(KindFormatError, "Load", "bad slot: "+fields[3])
		}
		rec.SlotA = Slot(slot)
	}
	if fields[4] != "-" {
		rec.HasPointB = true
		rec.PointB = fields[4]
		slot, err := strconv.Atoi(fields[5])
		if err != nil {
			return SegmentRecord{}, newErr(KindFormatError, "Load", "bad slot: "+fields[5])
		}
		rec.SlotB = Slot(slot)
	}
	rec.SignalA = fields[6] == "sigA:Y"
	rec.SignalB = fields[7] == "sigB:Y"
	return rec, nil
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
