package track

// occupant is the non-owning back-reference from a point slot to the
// segment end plugged into it.
type occupant struct {
	segment *Segment
	end     End
}

// Point is a connection point joining up to three segment ends. Its Shape
// is never stored: it is always derived from which slots are occupied.
type Point struct {
	name  string
	slots [3]*occupant // indexed by Slot

	// switchState only matters once the point has grown a third slot and
	// become a junction; it records which fork the common slot currently
	// routes through.
	switchState SwitchState
}

// Name returns the point's identifier.
func (p *Point) Name() string { return p.name }

// Shape derives the point's topological type from slot occupancy: a
// junction has all three slots filled, a continuation has exactly slots 1
// and 2, a terminator has only slot 1, and an empty point (transient,
// never persists past a single operation) has none.
func (p *Point) Shape() Shape {
	switch {
	case p.slots[Slot3] != nil:
		return ShapeJunction
	case p.slots[Slot2] != nil:
		return ShapeContinuation
	case p.slots[Slot1] != nil:
		return ShapeTerminator
	default:
		return ShapeEmpty
	}
}

// SwitchState reports which fork a junction currently routes through. For
// non-junction points the value is meaningless.
func (p *Point) SwitchState() SwitchState { return p.switchState }

// Occupant returns the segment and end bound into slot, or ok=false if
// that slot is empty.
func (p *Point) Occupant(slot Slot) (seg *Segment, end End, ok bool) {
	o := p.slots[slot]
	if o == nil {
		return nil, 0, false
	}
	return o.segment, o.end, true
}

func (p *Point) bind(slot Slot, seg *Segment, end End) {
	p.slots[slot] = &occupant{segment: seg, end: end}
	seg.setBinding(end, p, slot)
}

func (p *Point) unbind(slot Slot) {
	o := p.slots[slot]
	if o == nil {
		return
	}
	o.segment.clearBinding(o.end)
	p.slots[slot] = nil
}

// NextThrough reports the segment end reached by entering this point
// through entry, following the slot-1/slot-2 through-path of a
// continuation or, at a junction, the fork selected by switchState. It
// reports ok=false at a terminator (dead end) or when the junction's
// switch is thrown away from entry.
func (p *Point) NextThrough(entry Slot) (seg *Segment, end End, ok bool) {
	switch p.Shape() {
	case ShapeContinuation:
		out := Slot2
		if entry == Slot2 {
			out = Slot1
		}
		return p.Occupant(out)

	case ShapeJunction:
		switch entry {
		case Slot1:
			switch p.switchState {
			case SwitchLeft:
				return p.Occupant(Slot2)
			case SwitchRight:
				return p.Occupant(Slot3)
			default:
				return nil, 0, false
			}
		case Slot2:
			if p.switchState != SwitchLeft {
				return nil, 0, false
			}
			return p.Occupant(Slot1)
		case Slot3:
			if p.switchState != SwitchRight {
				return nil, 0, false
			}
			return p.Occupant(Slot1)
		}
		return nil, 0, false

	default:
		// Terminator or empty: no way through.
		return nil, 0, false
	}
}

// ThrowSwitch sets which fork a junction routes its common slot through.
// When p is not a junction it leaves the switch unchanged and returns an
// invalid-slot error.
func (p *Point) ThrowSwitch(state SwitchState) error {
	if p.Shape() != ShapeJunction {
		return newErr(KindInvalidSlot, "ThrowSwitch", "point "+p.name+" is not a junction")
	}
	p.switchState = state
	return nil
}
