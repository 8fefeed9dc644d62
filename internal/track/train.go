package track

// demand is one entry in a train's route: when the train's advance reaches
// this point, the junction must be thrown to state before the train can
// proceed through it.
type demand struct {
	point *Point
	state SwitchState
}

// Train is a single train occupying exactly one segment at a time, moving
// toward heading. A train with a destination carries an ordered stack of
// switch demands computed by the router; a train with no destination just
// keeps moving until it runs off the end of the track.
type Train struct {
	name    string
	segment *Segment
	heading End

	hasDestination bool
	destination    *Segment // non-owning; nil unless hasDestination
	route          []demand
}

// Name returns the train's identifier.
func (t *Train) Name() string { return t.name }

// Segment returns the segment the train currently occupies.
func (t *Train) Segment() *Segment { return t.segment }

// Heading returns the end of its current segment the train is moving
// toward.
func (t *Train) Heading() End { return t.heading }

// Destination returns the name of the segment the train is routed to, and
// whether it has one at all.
func (t *Train) Destination() (string, bool) {
	if !t.hasDestination {
		return "", false
	}
	return t.destination.name, true
}

// RouteRemaining reports how many switch demands remain before the train
// reaches its destination. Meaningless if it has no destination.
func (t *Train) RouteRemaining() int { return len(t.route) }

func (t *Train) nextDemand() (demand, bool) {
	if len(t.route) == 0 {
		return demand{}, false
	}
	return t.route[0], true
}

func (t *Train) popDemand() {
	if len(t.route) > 0 {
		t.route = t.route[1:]
	}
}
