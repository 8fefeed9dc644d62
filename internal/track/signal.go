package track

// Signal is a red/green indicator owned by one end of one segment. Its
// state is never set directly by a caller; it is always the output of
// evaluateSignal, a pure function of the surrounding topology and the trains
// currently on it.
type Signal struct {
	segment *Segment
	end     End
	green   bool
}

// Segment returns the segment this signal is attached to.
func (s *Signal) Segment() *Segment { return s.segment }

// End returns which end of the segment the signal protects.
func (s *Signal) End() End { return s.end }

// Green reports the signal's last-computed aspect.
func (s *Signal) Green() bool { return s.green }

func newSignal(seg *Segment, end End) *Signal {
	return &Signal{segment: seg, end: end}
}

// UpdateAllSignals recomputes the aspect of every signal in segments. It is
// a pure function of the topology and train placement: calling it twice in
// a row without any mutation in between produces identical results.
func UpdateAllSignals(segments []*Segment) {
	for _, seg := range segments {
		for _, end := range [2]End{EndA, EndB} {
			sig := seg.Signal(end)
			if sig == nil {
				continue
			}
			sig.green = evaluateSignal(seg, end)
		}
	}
}

// evaluateSignal decides whether it is safe to proceed out of seg through
// end: red by default, green only if the immediately adjacent segment is
// unoccupied and no oncoming train is found while walking the chain of
// continuations beyond it, stopping at the first junction.
func evaluateSignal(seg *Segment, end End) bool {
	p := seg.Point(end)
	if p == nil {
		return false
	}
	next, nextEnd, ok := p.NextThrough(seg.Slot(end))
	if !ok {
		return false
	}
	if next.Train() != nil {
		return false
	}

	visited := map[*Segment]bool{seg: true, next: true}
	cur := next
	curFarEnd := nextEnd.Other()
	for {
		p2 := cur.Point(curFarEnd)
		if p2 == nil || p2.Shape() != ShapeContinuation {
			break
		}
		nxt, nxtEnd, ok2 := p2.NextThrough(cur.Slot(curFarEnd))
		if !ok2 || visited[nxt] {
			break
		}
		visited[nxt] = true
		if tr := nxt.Train(); tr != nil && tr.Heading() == nxtEnd {
			return false
		}
		cur = nxt
		curFarEnd = nxtEnd.Other()
	}
	return true
}
