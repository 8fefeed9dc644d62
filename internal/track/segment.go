package track

// Segment is a single piece of track with two ends, A and B. Each end is
// either free, bound into a connection Point's slot, or terminated by a
// dead end (the zero value: unbound).
type Segment struct {
	name string

	binding [2]*binding // indexed by End
	signal  [2]*Signal  // indexed by End; nil until a signal is placed

	train *Train // non-owning; nil if no train currently occupies this segment
}

// binding is the non-owning back-reference from a segment end to the point
// slot it is plugged into.
type binding struct {
	point *Point
	slot  Slot
}

// Name returns the segment's identifier.
func (s *Segment) Name() string { return s.name }

// Bound reports whether the given end is plugged into a connection point.
func (s *Segment) Bound(end End) bool { return s.binding[end] != nil }

// Point returns the connection point bound at end, or nil if that end is a
// free dead end.
func (s *Segment) Point(end End) *Point {
	b := s.binding[end]
	if b == nil {
		return nil
	}
	return b.point
}

// Slot returns the slot this segment occupies at end's connection point.
// Only meaningful when Bound(end) is true.
func (s *Segment) Slot(end End) Slot {
	return s.binding[end].slot
}

// Signal returns the signal placed at end, or nil if none has been added.
func (s *Segment) Signal(end End) *Signal { return s.signal[end] }

// Train returns the train currently occupying this segment, or nil.
func (s *Segment) Train() *Train { return s.train }

func (s *Segment) setBinding(end End, p *Point, slot Slot) {
	s.binding[end] = &binding{point: p, slot: slot}
}

func (s *Segment) clearBinding(end End) {
	s.binding[end] = nil
}
