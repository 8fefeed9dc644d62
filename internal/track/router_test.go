package track

import "testing"

func TestRoute_StraightLineNeedsNoDemands(t *testing.T) {
	var n Network
	a, _ := n.CreateSegment("a")
	b, _ := n.CreateSegment("b")
	n.Connect(a.Name(), EndB, b.Name(), EndA)

	heading, demands, err := route(a, b)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if heading != EndB {
		t.Fatalf("expected canonical heading B (toward the point shared with b), got %s", heading)
	}
	if len(demands) != 0 {
		t.Fatalf("expected no demands on a plain continuation, got %d", len(demands))
	}
}

func TestRoute_ThroughJunctionPicksCorrectFork(t *testing.T) {
	var n Network
	a, _ := n.CreateSegment("a")
	b, _ := n.CreateSegment("b")
	c, _ := n.CreateSegment("c")
	n.Connect(a.Name(), EndB, b.Name(), EndA)
	n.Connect(a.Name(), EndB, c.Name(), EndA)

	heading, demands, err := route(a, c)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if heading != EndB {
		t.Fatalf("expected canonical heading B (toward the junction), got %s", heading)
	}
	if len(demands) != 1 {
		t.Fatalf("expected one demand at the junction, got %d", len(demands))
	}
	if demands[0].state != SwitchRight {
		t.Fatalf("expected the route to demand the right fork (toward c), got %s", demands[0].state)
	}
}

func TestRoute_SeedsBothEnds_PicksReachableHeading(t *testing.T) {
	var n Network
	a, _ := n.CreateSegment("a")
	b, _ := n.CreateSegment("b")
	n.Connect(a.Name(), EndB, b.Name(), EndA)

	// a can only reach b by heading toward B; the router must discover
	// this on its own without being told a heading up front.
	heading, _, err := route(a, b)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if heading != EndB {
		t.Fatalf("expected router to pick heading B, got %s", heading)
	}
}

func TestRoute_UnreachableDestination(t *testing.T) {
	var n Network
	a, _ := n.CreateSegment("a")
	isolated, _ := n.CreateSegment("isolated")

	_, _, err := route(a, isolated)
	if err == nil {
		t.Fatal("expected unreachable error")
	}
	if kind, _ := KindOf(err); kind != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
}
