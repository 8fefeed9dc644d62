package track

// StepResult summarizes what happened to every train during one tick.
type StepResult struct {
	Moved      []string // trains that advanced onto a new segment
	Arrived    []string // trains that reached a dead end or their destination and were removed
	Waiting    []string // trains that could not move this tick (blocked fork or refused switch)
	Collisions []string // trains removed after colliding with another train
}

// RunResult summarizes a multi-tick Run.
type RunResult struct {
	Ticks    int
	Complete bool // true if every train finished before the tick cap
	Results  []StepResult
}

// step advances every train on the network by one tick. Caller must hold
// n.mu.
func step(n *Network) (StepResult, error) {
	var result StepResult

	names := make([]string, len(n.trainOrd))
	copy(names, n.trainOrd)

	for _, name := range names {
		tr, ok := n.trains[name]
		if !ok {
			continue // no longer registered; trains are only removed by their own step
		}
		stepTrain(n, tr, &result)
	}
	return result, nil
}

// stepTrain advances a single train by one tick, following §4.6's
// per-step rule exactly: dead ends and the destination segment finish the
// train; a red signal halts it; a continuation always tries to relocate;
// a junction entered via its common slot consults the pending route
// demand; a junction entered via a fork slot tries to align the switch
// toward itself when the common segment is free, but never moves through
// it the same tick it throws the switch.
func stepTrain(n *Network, tr *Train, result *StepResult) {
	if tr.segment == nil {
		return // not yet placed; nothing to step
	}
	seg := tr.segment

	if tr.hasDestination && seg == tr.destination {
		n.removeTrainLocked(tr.name)
		result.Arrived = append(result.Arrived, tr.name)
		return
	}

	p := seg.Point(tr.heading)
	if p == nil || p.Shape() == ShapeTerminator {
		n.removeTrainLocked(tr.name)
		result.Arrived = append(result.Arrived, tr.name)
		return
	}

	if sig := seg.Signal(tr.heading); sig != nil && !sig.Green() {
		result.Waiting = append(result.Waiting, tr.name)
		return
	}

	slot := seg.Slot(tr.heading)

	switch p.Shape() {
	case ShapeContinuation:
		out := Slot2
		if slot == Slot2 {
			out = Slot1
		}
		relocate(n, tr, p, out, result)

	case ShapeJunction:
		switch slot {
		case Slot1:
			if d, has := tr.nextDemand(); has && d.point == p && d.state != p.switchState {
				p.switchState = d.state
				result.Waiting = append(result.Waiting, tr.name)
				return
			}
			out := Slot2
			if p.switchState == SwitchRight {
				out = Slot3
			}
			moved := relocate(n, tr, p, out, result)
			if moved {
				if d, has := tr.nextDemand(); has && d.point == p {
					tr.popDemand()
				}
			}

		case Slot2:
			if p.switchState != SwitchLeft {
				tryThrow(p, Slot1, SwitchLeft)
				result.Waiting = append(result.Waiting, tr.name)
				return
			}
			relocate(n, tr, p, Slot1, result)

		case Slot3:
			if p.switchState != SwitchRight {
				// Refuse the throw if a slot-2 train is already committed
				// to the common segment.
				if seg2, _, ok := p.Occupant(Slot2); !ok || seg2.train == nil {
					tryThrow(p, Slot1, SwitchRight)
				}
				result.Waiting = append(result.Waiting, tr.name)
				return
			}
			relocate(n, tr, p, Slot1, result)
		}

	default:
		result.Waiting = append(result.Waiting, tr.name)
	}
}

// tryThrow sets p's switch to state only if the segment bound at guard is
// unoccupied, matching the "throw only if the common is free" rule for a
// fork-entered junction aligning itself automatically.
func tryThrow(p *Point, guard Slot, state SwitchState) {
	seg, _, ok := p.Occupant(guard)
	if ok && seg.train == nil {
		p.switchState = state
	}
}

// relocate moves tr through p's out slot if that segment is unoccupied,
// raising a collision if it is occupied. Reports whether the train moved.
func relocate(n *Network, tr *Train, p *Point, out Slot, result *StepResult) bool {
	nextSeg, arrivalEnd, ok := p.Occupant(out)
	if !ok {
		result.Waiting = append(result.Waiting, tr.name)
		return false
	}
	if nextSeg.train != nil {
		result.Collisions = append(result.Collisions, tr.name)
		n.removeTrainLocked(tr.name)
		return false
	}

	seg := tr.segment
	seg.train = nil
	tr.segment = nextSeg
	tr.heading = arrivalEnd.Other()
	nextSeg.train = tr
	result.Moved = append(result.Moved, tr.name)
	return true
}

// removeTrainLocked deletes a train from the network. Caller must hold
// n.mu.
func (n *Network) removeTrainLocked(name string) {
	tr, ok := n.trains[name]
	if !ok {
		return
	}
	if tr.segment != nil && tr.segment.train == tr {
		tr.segment.train = nil
	}
	delete(n.trains, name)
	for i, nm := range n.trainOrd {
		if nm == name {
			n.trainOrd = append(n.trainOrd[:i], n.trainOrd[i+1:]...)
			break
		}
	}
}

// hasPlacedTrain reports whether any train currently occupies a segment.
// Unplaced trains (created but never placed) never step and so must not
// keep Run from reporting completion.
func (n *Network) hasPlacedTrain() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	for _, tr := range n.trains {
		if tr.segment != nil {
			return true
		}
	}
	return false
}

// Run steps the simulation until no placed trains remain or maxTicks is
// reached, whichever comes first.
func (n *Network) Run(maxTicks int) RunResult {
	var rr RunResult
	for rr.Ticks = 0; rr.Ticks < maxTicks; rr.Ticks++ {
		if !n.hasPlacedTrain() {
			rr.Complete = true
			return rr
		}
		res, _ := n.Step()
		rr.Results = append(rr.Results, res)
	}
	rr.Complete = !n.hasPlacedTrain()
	return rr
}
