package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kauel/railsim/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*session, *bytes.Buffer) {
	var buf bytes.Buffer
	return &session{net: &track.Network{}, metrics: newSimMetrics(), out: &buf}, &buf
}

func TestDispatch_AddSegmentAndListSegments(t *testing.T) {
	s, out := newTestSession()
	require.True(t, s.dispatch([]string{"addsegment", "main"}))
	assert.Contains(t, out.String(), "created segment main")

	out.Reset()
	s.dispatch([]string{"listsegments"})
	assert.Contains(t, out.String(), "main: A=node001/1 B=node002/1 train=none")
}

func TestDispatch_ConnectAndShowConnections(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"addsegment", "a"})
	s.dispatch([]string{"addsegment", "b"})
	out.Reset()

	s.dispatch([]string{"connect", "a", "B", "b", "A"})
	assert.Contains(t, out.String(), "connected")

	out.Reset()
	s.dispatch([]string{"showconnections", "node002"})
	assert.Contains(t, out.String(), "shape=continuation")
}

func TestDispatch_PlaceTrainAndStep(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"addsegment", "a"})
	s.dispatch([]string{"addsegment", "b"})
	s.dispatch([]string{"connect", "a", "B", "b", "A"})
	out.Reset()

	s.dispatch([]string{"placetrain", "t1", "a", "B"})
	assert.Contains(t, out.String(), "placed train t1")

	out.Reset()
	s.dispatch([]string{"step"})
	assert.Contains(t, out.String(), "moved: [t1]")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"doesnotexist"})
	assert.Contains(t, out.String(), "unknown command")
}

func TestDispatch_ExitStopsTheLoop(t *testing.T) {
	s, out := newTestSession()
	cont := s.dispatch([]string{"exit"})
	assert.False(t, cont)
	assert.True(t, strings.Contains(out.String(), "bye"))
}

func TestDispatch_ErrorsSurfaceTrackErrorKind(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"addsegment", "a"})
	out.Reset()
	s.dispatch([]string{"addsegment", "a"})
	assert.Contains(t, out.String(), "name-collision")
}

func TestDispatch_CreateTrainThenPlaceUpgradesIt(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"addsegment", "a"})
	out.Reset()

	s.dispatch([]string{"createtrain", "t1"})
	assert.Contains(t, out.String(), "created train t1")

	out.Reset()
	s.dispatch([]string{"listtrains"})
	assert.Contains(t, out.String(), "t1: unplaced")

	out.Reset()
	s.dispatch([]string{"placetrain", "t1", "a", "A"})
	assert.Contains(t, out.String(), "placed train t1")

	out.Reset()
	s.dispatch([]string{"listtrains"})
	assert.Contains(t, out.String(), "t1: segment=a heading=A destination=none remaining=0")
}

func TestDispatch_InvalidEndSurfacesTrackErrorKind(t *testing.T) {
	s, out := newTestSession()
	s.dispatch([]string{"addsegment", "a"})
	s.dispatch([]string{"addsegment", "b"})
	out.Reset()

	s.dispatch([]string{"connect", "a", "X", "b", "A"})
	assert.Contains(t, out.String(), "invalid-end")
}
