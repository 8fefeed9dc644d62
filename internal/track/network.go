package track

import (
	"log/slog"
	"sync"
)

// Network is the sole owner of every Segment, Point, Train, and Signal in
// a simulation. All other types hold non-owning references into it.
// Zero value is ready to use; Store is optional (nil means no
// persistence).
//
// Thread-safe: every exported method takes the single lock, matching the
// single-threaded cooperative model this simulator assumes -- a
// multi-goroutine caller would simply serialize through it rather than
// the core ever reasoning about concurrent mutation itself.
type Network struct {
	// Store persists the track layout. Optional.
	Store Store

	mu sync.Mutex

	segments    map[string]*Segment
	points      map[string]*Point
	trains      map[string]*Train
	segmentOrd  []string // insertion order, for deterministic iteration/serialization
	pointOrd    []string
	trainOrd    []string
	initialized bool
}

func (n *Network) init() {
	if n.initialized {
		return
	}
	n.segments = make(map[string]*Segment)
	n.points = make(map[string]*Point)
	n.trains = make(map[string]*Train)
	n.initialized = true
}

// Reset discards every segment, point, train, and signal, invalidating all
// outstanding references atomically.
func (n *Network) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.segments = make(map[string]*Segment)
	n.points = make(map[string]*Point)
	n.trains = make(map[string]*Train)
	n.segmentOrd = nil
	n.pointOrd = nil
	n.trainOrd = nil
	n.initialized = true
	slog.Info("network reset")
}

// CreateSegment adds a new, fully disconnected segment. If name is empty
// the lowest free tsegNNN name is assigned.
func (n *Network) CreateSegment(name string) (*Segment, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	if name == "" {
		used := make(map[string]bool, len(n.segments))
		for k := range n.segments {
			used[k] = true
		}
		name = nextFreeName(used, segmentPattern)
	} else if _, exists := n.segments[name]; exists {
		return nil, newErr(KindNameCollision, "CreateSegment", name)
	}

	seg := &Segment{name: name}
	n.segments[name] = seg
	n.segmentOrd = append(n.segmentOrd, name)

	pa := n.newPoint()
	pa.bind(Slot1, seg, EndA)
	pb := n.newPoint()
	pb.bind(Slot1, seg, EndB)

	slog.Info("segment created", "segment", name)
	n.save()
	return seg, nil
}

// Segment looks up a segment by name.
func (n *Network) Segment(name string) (*Segment, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	s, ok := n.segments[name]
	return s, ok
}

// Point looks up a connection point by name.
func (n *Network) Point(name string) (*Point, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	p, ok := n.points[name]
	return p, ok
}

// Train looks up a train by name.
func (n *Network) Train(name string) (*Train, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	t, ok := n.trains[name]
	return t, ok
}

// Segments returns every segment in insertion order.
func (n *Network) Segments() []*Segment {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	out := make([]*Segment, 0, len(n.segmentOrd))
	for _, name := range n.segmentOrd {
		out = append(out, n.segments[name])
	}
	return out
}

// Points returns every connection point in insertion order.
func (n *Network) Points() []*Point {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	out := make([]*Point, 0, len(n.pointOrd))
	for _, name := range n.pointOrd {
		out = append(out, n.points[name])
	}
	return out
}

// Trains returns every train in insertion order.
func (n *Network) Trains() []*Train {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	out := make([]*Train, 0, len(n.trainOrd))
	for _, name := range n.trainOrd {
		out = append(out, n.trains[name])
	}
	return out
}

// AllJunctions returns every connection point currently shaped as a
// junction.
func (n *Network) AllJunctions() []*Point {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	var out []*Point
	for _, name := range n.pointOrd {
		p := n.points[name]
		if p.Shape() == ShapeJunction {
			out = append(out, p)
		}
	}
	return out
}

// Connect joins segA's end ea to segB's end eb, growing P, the point
// currently bound to (segA, ea), and discarding Q, the point currently
// bound to (segB, eb). Every segment end is always bound to some point
// from the moment the segment is created, so P and Q always exist and
// P is always a terminator or a continuation; "empty" is unreachable by
// invariant. Connecting a segment to itself always fails, regardless of
// which ends are named, matching the reference implementation's
// unconditional same-segment check.
func (n *Network) Connect(aName string, ea End, bName string, eb End) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	segA, ok := n.segments[aName]
	if !ok {
		return newErr(KindUnknownName, "Connect", aName)
	}
	segB, ok := n.segments[bName]
	if !ok {
		return newErr(KindUnknownName, "Connect", bName)
	}
	if segA == segB {
		return newErr(KindSelfJunction, "Connect", "cannot connect a segment to itself")
	}

	p := segA.Point(ea)
	q := segB.Point(eb)
	if q.Shape() != ShapeTerminator {
		return newErr(KindEndpointOccupied, "Connect", bName+"."+eb.String())
	}

	switch p.Shape() {
	case ShapeTerminator:
		p.bind(Slot2, segB, eb)

	case ShapeContinuation:
		// Growing p into a junction: segA's own occupied slot must end up
		// as the common slot (slot 1). If segA currently sits in slot 2,
		// swap slots 1 and 2 before adding segB in slot 3.
		if other, _, ok := p.Occupant(Slot1); ok && other == segB {
			return newErr(KindSelfJunction, "Connect", "segment already connects to itself at "+p.name)
		}
		if other, _, ok := p.Occupant(Slot2); ok && other == segB {
			return newErr(KindSelfJunction, "Connect", "segment already connects to itself at "+p.name)
		}

		aSlot := segA.Slot(ea)
		if aSlot == Slot2 {
			s1seg, s1end, _ := p.Occupant(Slot1)
			s2seg, s2end, _ := p.Occupant(Slot2)
			p.unbind(Slot1)
			p.unbind(Slot2)
			p.bind(Slot1, s2seg, s2end)
			p.bind(Slot2, s1seg, s1end)
		}
		p.bind(Slot3, segB, eb)
		p.switchState = SwitchLeft

	case ShapeJunction:
		return newErr(KindPointFull, "Connect", p.name)
	}

	// q held only (segB, eb); that binding now belongs to p.
	n.deletePoint(q)

	slog.Info("segments connected", "a", aName, "end_a", ea.String(), "b", bName, "end_b", eb.String())
	n.save()
	return nil
}

func (n *Network) newPoint() *Point {
	used := make(map[string]bool, len(n.points))
	for k := range n.points {
		used[k] = true
	}
	name := nextFreeName(used, pointPattern)
	p := &Point{name: name}
	n.points[name] = p
	n.pointOrd = append(n.pointOrd, name)
	return p
}

func (n *Network) deletePoint(p *Point) {
	delete(n.points, p.name)
	for i, name := range n.pointOrd {
		if name == p.name {
			n.pointOrd = append(n.pointOrd[:i], n.pointOrd[i+1:]...)
			break
		}
	}
}

// AddSignal places a signal at seg's end, replacing any existing one.
func (n *Network) AddSignal(segName string, end End) (*Signal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	seg, ok := n.segments[segName]
	if !ok {
		return nil, newErr(KindUnknownName, "AddSignal", segName)
	}
	sig := newSignal(seg, end)
	seg.signal[end] = sig
	n.save()
	return sig, nil
}

// AddSignalsToJunctions places a signal on whichever end of each
// junction's common segment faces the junction, for every junction
// missing one, then recomputes every signal's aspect.
func (n *Network) AddSignalsToJunctions() int {
	n.mu.Lock()
	placed := 0
	for _, name := range n.pointOrd {
		p := n.points[name]
		if p.Shape() != ShapeJunction {
			continue
		}
		seg, end, ok := p.Occupant(Slot1)
		if !ok || seg.Signal(end) != nil {
			continue
		}
		seg.signal[end] = newSignal(seg, end)
		placed++
	}
	if placed > 0 {
		n.save()
	}
	segs := n.allSegmentsLocked()
	n.mu.Unlock()

	UpdateAllSignals(segs)
	if placed > 0 {
		slog.Info("signals added to junctions", "count", placed)
	}
	return placed
}

func (n *Network) allSegmentsLocked() []*Segment {
	out := make([]*Segment, 0, len(n.segmentOrd))
	for _, name := range n.segmentOrd {
		out = append(out, n.segments[name])
	}
	return out
}

// CreateTrain allocates a new, unplaced train: a named entity with no
// position yet. If name is empty the lowest free trainN name is
// assigned. PlaceTrain later gives it a segment and heading.
func (n *Network) CreateTrain(name string) (*Train, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	if name == "" {
		used := make(map[string]bool, len(n.trains))
		for k := range n.trains {
			used[k] = true
		}
		name = nextFreeName(used, trainPattern)
	} else if _, exists := n.trains[name]; exists {
		return nil, newErr(KindNameCollision, "CreateTrain", name)
	}

	tr := &Train{name: name}
	n.trains[name] = tr
	n.trainOrd = append(n.trainOrd, name)
	slog.Info("train created", "train", name)
	n.save()
	return tr, nil
}

// PlaceTrain gives a train a position: segName and heading. name may
// name an existing unplaced train (created via CreateTrain), in which
// case it is placed in turn; otherwise a new train is created and
// placed in one step. If name is empty the lowest free trainN name is
// assigned to a newly created train.
func (n *Network) PlaceTrain(name, segName string, heading End) (*Train, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	seg, ok := n.segments[segName]
	if !ok {
		return nil, newErr(KindUnknownName, "PlaceTrain", segName)
	}
	if seg.train != nil {
		return nil, newErr(KindTrainAlreadyOnSegment, "PlaceTrain", segName)
	}

	var tr *Train
	if name == "" {
		used := make(map[string]bool, len(n.trains))
		for k := range n.trains {
			used[k] = true
		}
		name = nextFreeName(used, trainPattern)
		tr = &Train{name: name}
		n.trains[name] = tr
		n.trainOrd = append(n.trainOrd, name)
	} else if existing, exists := n.trains[name]; exists {
		if existing.segment != nil {
			return nil, newErr(KindNameCollision, "PlaceTrain", name)
		}
		tr = existing
	} else {
		tr = &Train{name: name}
		n.trains[name] = tr
		n.trainOrd = append(n.trainOrd, name)
	}

	tr.segment = seg
	tr.heading = heading
	seg.train = tr
	slog.Info("train placed", "train", name, "segment", segName, "heading", heading.String())
	n.save()
	return tr, nil
}

// RemoveTrain clears a train's occupancy and deletes it from the network.
func (n *Network) RemoveTrain(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	if _, ok := n.trains[name]; !ok {
		return newErr(KindUnknownName, "RemoveTrain", name)
	}
	n.removeTrainLocked(name)
	slog.Info("train removed", "train", name)
	n.save()
	return nil
}

// SetDestination assigns a routed destination segment to a train,
// computing its ordered stack of switch demands with the BFS router.
func (n *Network) SetDestination(trainName, segName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	tr, ok := n.trains[trainName]
	if !ok {
		return newErr(KindUnknownName, "SetDestination", trainName)
	}
	dest, ok := n.segments[segName]
	if !ok {
		return newErr(KindUnknownName, "SetDestination", segName)
	}
	if tr.segment == nil {
		return newErr(KindUnreachable, "SetDestination", trainName+" has no position yet")
	}

	heading, demands, err := route(tr.segment, dest)
	if err != nil {
		return err
	}
	tr.heading = heading
	tr.hasDestination = true
	tr.destination = dest
	tr.route = demands
	return nil
}

// Step advances the simulation by one tick.
func (n *Network) Step() (StepResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	return step(n)
}

// ThrowSwitch sets a junction's switch state directly (manual override,
// outside of any train's route).
func (n *Network) ThrowSwitch(pointName string, state SwitchState) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	p, ok := n.points[pointName]
	if !ok {
		return newErr(KindUnknownName, "ThrowSwitch", pointName)
	}
	return p.ThrowSwitch(state)
}

// save persists the network to Store, if configured. Caller must hold mu.
func (n *Network) save() {
	if n.Store == nil {
		return
	}
	if err := n.Store.Save(n.snapshotLocked()); err != nil {
		slog.Error("failed to save network", "error", err)
	}
}

// Save forces an immediate persist to Store, returning any error instead
// of only logging it as the implicit post-mutation save does.
func (n *Network) Save() error {
	if n.Store == nil {
		return newErr(KindInvariantViolation, "Save", "no store configured")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	return n.Store.Save(n.snapshotLocked())
}

// Load restores the network from Store, replacing all current state. A
// nil Store, or a Store with nothing saved yet, leaves the current state
// unchanged.
func (n *Network) Load() error {
	if n.Store == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()

	snap, found, err := n.Store.Load()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := n.restoreLocked(snap); err != nil {
		return err
	}
	slog.Info("network restored from store", "segments", len(n.segmentOrd), "trains", len(n.trainOrd))
	return nil
}
