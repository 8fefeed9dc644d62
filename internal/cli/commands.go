package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kauel/railsim/internal/track"
)

// maxRunTicks bounds the run command: a simulation that hasn't settled by
// then is reported as incomplete rather than run forever.
const maxRunTicks = 10000

// session bundles everything a single command invocation needs.
type session struct {
	net     *track.Network
	metrics *simMetrics
	out     io.Writer
}

// dispatch runs one parsed command line. It returns false when the shell
// should exit.
func (s *session) dispatch(args []string) bool {
	if len(args) == 0 {
		return true
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help":
		s.printHelp()

	case "exit", "quit":
		fmt.Fprintln(s.out, "bye")
		return false

	case "addsegment":
		s.cmdAddSegment(rest)
	case "connect":
		s.cmdConnect(rest)
	case "throwswitch":
		s.cmdThrowSwitch(rest)
	case "listsegments":
		s.cmdListSegments(rest)
	case "showconnections":
		s.cmdShowConnections(rest)
	case "createtrain":
		s.cmdCreateTrain(rest)
	case "placetrain":
		s.cmdPlaceTrain(rest)
	case "removetrain":
		s.cmdRemoveTrain(rest)
	case "destination":
		s.cmdDestination(rest)
	case "listtrains":
		s.cmdListTrains(rest)
	case "showtrain":
		s.cmdShowTrain(rest)
	case "step":
		s.cmdStep(rest)
	case "run":
		s.cmdRun(rest)
	case "addsignals":
		s.cmdAddSignals(rest)
	case "reset":
		s.net.Reset()
		if s.metrics != nil {
			s.metrics.activeTrains.Set(0)
		}
		fmt.Fprintln(s.out, "network reset")
	case "save":
		s.cmdSave(rest)
	case "load":
		s.cmdLoad(rest)

	default:
		fmt.Fprintf(s.out, "unknown command: %s (try \"help\")\n", cmd)
	}
	return true
}

func (s *session) reportErr(err error) {
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func (s *session) cmdAddSegment(args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	seg, err := s.net.CreateSegment(name)
	if err != nil {
		s.reportErr(err)
		return
	}
	if s.metrics != nil {
		s.metrics.segmentsCreated.Inc()
	}
	fmt.Fprintf(s.out, "created segment %s\n", seg.Name())
}

func (s *session) cmdConnect(args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.out, "usage: connect <segmentA> <A|B> <segmentB> <A|B>")
		return
	}
	ea, ok := track.ParseEnd(args[1])
	if !ok {
		s.reportErr(track.InvalidEndError("Connect", args[1]))
		return
	}
	eb, ok := track.ParseEnd(args[3])
	if !ok {
		s.reportErr(track.InvalidEndError("Connect", args[3]))
		return
	}
	if err := s.net.Connect(args[0], ea, args[2], eb); err != nil {
		s.reportErr(err)
		return
	}
	fmt.Fprintln(s.out, "connected")
}

func (s *session) cmdThrowSwitch(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: throwswitch <point> <L|R>")
		return
	}
	var state track.SwitchState
	switch args[1] {
	case "L", "l", "left":
		state = track.SwitchLeft
	case "R", "r", "right":
		state = track.SwitchRight
	default:
		fmt.Fprintf(s.out, "invalid switch state: %s\n", args[1])
		return
	}
	if err := s.net.ThrowSwitch(args[0], state); err != nil {
		s.reportErr(err)
		return
	}
	fmt.Fprintln(s.out, "switch thrown")
}

func (s *session) cmdListSegments(_ []string) {
	for _, seg := range s.net.Segments() {
		fmt.Fprintf(s.out, "%s: A=%s B=%s train=%s\n",
			seg.Name(), endDesc(seg, track.EndA), endDesc(seg, track.EndB), trainDesc(seg.Train()))
	}
}

func endDesc(seg *track.Segment, end track.End) string {
	p := seg.Point(end)
	if p == nil {
		return "open"
	}
	sig := ""
	if s := seg.Signal(end); s != nil {
		if s.Green() {
			sig = " signal=green"
		} else {
			sig = " signal=red"
		}
	}
	return fmt.Sprintf("%s/%s%s", p.Name(), seg.Slot(end), sig)
}

func trainDesc(t *track.Train) string {
	if t == nil {
		return "none"
	}
	return t.Name()
}

func (s *session) cmdShowConnections(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: showconnections <point>")
		return
	}
	p, ok := s.net.Point(args[0])
	if !ok {
		fmt.Fprintf(s.out, "unknown point: %s\n", args[0])
		return
	}
	fmt.Fprintf(s.out, "%s: shape=%s switch=%s\n", p.Name(), p.Shape(), p.SwitchState())
	for _, slot := range [3]track.Slot{track.Slot1, track.Slot2, track.Slot3} {
		if seg, end, ok := p.Occupant(slot); ok {
			fmt.Fprintf(s.out, "  slot %s: %s.%s\n", slot, seg.Name(), end)
		}
	}
}

func (s *session) cmdCreateTrain(args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	tr, err := s.net.CreateTrain(name)
	if err != nil {
		s.reportErr(err)
		return
	}
	fmt.Fprintf(s.out, "created train %s\n", tr.Name())
}

func (s *session) cmdPlaceTrain(args []string) {
	var name, segName, headingStr string
	switch len(args) {
	case 2:
		segName, headingStr = args[0], args[1]
	case 3:
		name, segName, headingStr = args[0], args[1], args[2]
	default:
		fmt.Fprintln(s.out, "usage: placetrain [name] <segment> <A|B>")
		return
	}
	heading, ok := track.ParseEnd(headingStr)
	if !ok {
		s.reportErr(track.InvalidEndError("PlaceTrain", headingStr))
		return
	}
	tr, err := s.net.PlaceTrain(name, segName, heading)
	if err != nil {
		s.reportErr(err)
		return
	}
	if s.metrics != nil {
		s.metrics.trainsPlaced.Inc()
		s.metrics.activeTrains.Inc()
	}
	fmt.Fprintf(s.out, "placed train %s\n", tr.Name())
}

func (s *session) cmdRemoveTrain(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: removetrain <name>")
		return
	}
	tr, known := s.net.Train(args[0])
	wasPlaced := known && tr.Segment() != nil
	if err := s.net.RemoveTrain(args[0]); err != nil {
		s.reportErr(err)
		return
	}
	if s.metrics != nil && wasPlaced {
		s.metrics.activeTrains.Dec()
	}
	fmt.Fprintln(s.out, "train removed")
}

func (s *session) cmdDestination(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: destination <train> <segment>")
		return
	}
	if err := s.net.SetDestination(args[0], args[1]); err != nil {
		s.reportErr(err)
		return
	}
	fmt.Fprintln(s.out, "route computed")
}

func (s *session) cmdListTrains(_ []string) {
	for _, tr := range s.net.Trains() {
		fmt.Fprintln(s.out, trainLine(tr))
	}
}

func trainLine(tr *track.Train) string {
	seg := tr.Segment()
	if seg == nil {
		return fmt.Sprintf("%s: unplaced", tr.Name())
	}
	dest, has := tr.Destination()
	destStr := "none"
	if has {
		destStr = dest
	}
	return fmt.Sprintf("%s: segment=%s heading=%s destination=%s remaining=%d",
		tr.Name(), seg.Name(), tr.Heading(), destStr, tr.RouteRemaining())
}

func (s *session) cmdShowTrain(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: showtrain <name>")
		return
	}
	tr, ok := s.net.Train(args[0])
	if !ok {
		fmt.Fprintf(s.out, "unknown train: %s\n", args[0])
		return
	}
	fmt.Fprintln(s.out, trainLine(tr))
}

func (s *session) cmdStep(_ []string) {
	res, err := s.net.Step()
	if err != nil {
		s.reportErr(err)
		return
	}
	s.reportStep(res)
}

func (s *session) cmdRun(args []string) {
	ticks := maxRunTicks
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(s.out, "usage: run [max-ticks]")
			return
		}
		ticks = n
	}
	rr := s.net.Run(ticks)
	for _, res := range rr.Results {
		s.reportStep(res)
	}
	if rr.Complete {
		fmt.Fprintf(s.out, "run complete after %d ticks\n", rr.Ticks)
	} else {
		fmt.Fprintf(s.out, "run-incomplete: hit the %d tick cap with trains still moving\n", ticks)
	}
}

func (s *session) reportStep(res track.StepResult) {
	if s.metrics != nil {
		s.metrics.stepsRun.Inc()
		if len(res.Collisions) > 0 {
			s.metrics.collisions.Add(float64(len(res.Collisions)))
		}
		s.metrics.activeTrains.Sub(float64(len(res.Arrived) + len(res.Collisions)))
	}
	if len(res.Moved) > 0 {
		fmt.Fprintf(s.out, "moved: %v\n", res.Moved)
	}
	if len(res.Waiting) > 0 {
		fmt.Fprintf(s.out, "waiting: %v\n", res.Waiting)
	}
	if len(res.Arrived) > 0 {
		fmt.Fprintf(s.out, "arrived: %v\n", res.Arrived)
	}
	if len(res.Collisions) > 0 {
		fmt.Fprintf(s.out, "collision: %v\n", res.Collisions)
	}
}

func (s *session) cmdAddSignals(_ []string) {
	n := s.net.AddSignalsToJunctions()
	fmt.Fprintf(s.out, "added %d signal(s)\n", n)
}

func (s *session) cmdSave(args []string) {
	if store, ok := s.net.Store.(*track.FileStore); ok && len(args) == 1 {
		store.Path = args[0]
	}
	if s.net.Store == nil {
		fmt.Fprintln(s.out, "no store configured")
		return
	}
	if err := s.net.Save(); err != nil {
		s.reportErr(err)
		return
	}
	fmt.Fprintln(s.out, "saved")
}

func (s *session) cmdLoad(args []string) {
	if store, ok := s.net.Store.(*track.FileStore); ok && len(args) == 1 {
		store.Path = args[0]
	}
	if err := s.net.Load(); err != nil {
		s.reportErr(err)
		return
	}
	if s.metrics != nil {
		placed := 0
		for _, tr := range s.net.Trains() {
			if tr.Segment() != nil {
				placed++
			}
		}
		s.metrics.activeTrains.Set(float64(placed))
	}
	fmt.Fprintln(s.out, "loaded")
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `commands:
  addsegment [name]
  connect <segA> <A|B> <segB> <A|B>
  throwswitch <point> <L|R>
  listsegments
  showconnections <point>
  createtrain [name]
  placetrain [name] <segment> <A|B>
  removetrain <name>
  destination <train> <segment>
  listtrains
  showtrain <name>
  step
  run [max-ticks]
  addsignals
  reset
  save [path]
  load [path]
  help
  exit
`)
}
