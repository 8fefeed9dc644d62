package track

// searchState is a BFS node: a point together with the slot that faces
// the direction the search is coming from (the slot start's own end was
// bound to, for a seed; the slot the advancing segment's far end bound
// to, for everything after).
type searchState struct {
	point *Point
	slot  Slot
}

// frontier is one BFS queue entry: its search state, the heading at
// `start` this entry's lineage traces back to, and enough of a parent
// pointer to reconstruct the path once the destination is found.
type frontier struct {
	searchState
	heading    End
	parent     *frontier
	parentExit Slot // exit slot used at parent to reach this frontier
}

// route runs the two-seed breadth-first search §4.5 describes: both
// ends of start are seeded at once, so the search itself discovers
// which heading actually reaches destSeg rather than trusting a
// heading the caller already committed to. It returns that canonical
// heading alongside the ordered stack of switch demands.
func route(start *Segment, destSeg *Segment) (End, []demand, error) {
	if start == destSeg {
		return EndA, nil, nil
	}

	seedFor := func(end End) *frontier {
		p := start.Point(end)
		if p == nil {
			return nil
		}
		return &frontier{searchState: searchState{point: p, slot: start.Slot(end)}, heading: end}
	}

	visited := make(map[searchState]bool)
	var queue []*frontier
	for _, end := range [2]End{EndA, EndB} {
		if f := seedFor(end); f != nil && !visited[f.searchState] {
			visited[f.searchState] = true
			queue = append(queue, f)
		}
	}

	var goal *frontier
	var goalExit Slot

found:
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		candidates := []Slot{Slot1}
		if cur.slot == Slot1 {
			candidates = []Slot{Slot2, Slot3}
		}

		for _, exitSlot := range candidates {
			segAt, endAt, ok := cur.point.Occupant(exitSlot)
			if !ok {
				continue
			}
			if segAt == destSeg {
				goal, goalExit = cur, exitSlot
				break found
			}
			farEnd := endAt.Other()
			nextPoint := segAt.Point(farEnd)
			if nextPoint == nil {
				continue
			}
			next := searchState{point: nextPoint, slot: segAt.Slot(farEnd)}
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, &frontier{searchState: next, heading: cur.heading, parent: cur, parentExit: exitSlot})
		}
	}

	if goal == nil {
		return 0, nil, newErr(KindUnreachable, "Route", "no path from "+start.name+" to "+destSeg.name)
	}

	type step struct {
		point *Point
		entry Slot
		exit  Slot
	}
	steps := []step{{point: goal.point, entry: goal.slot, exit: goalExit}}
	for f := goal; f.parent != nil; f = f.parent {
		steps = append(steps, step{point: f.parent.point, entry: f.parent.slot, exit: f.parentExit})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	var demands []demand
	for _, st := range steps {
		if st.point.Shape() != ShapeJunction || st.entry != Slot1 {
			continue
		}
		state := SwitchRight
		if st.exit == Slot2 {
			state = SwitchLeft
		}
		demands = append(demands, demand{point: st.point, state: state})
	}
	return goal.heading, demands, nil
}
