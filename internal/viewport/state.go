// Package viewport is the client-side pan, zoom and fullscreen controller
// for rendered canvas pages.
//
// The geometry lives in pure functions over State so every input path
// (wheel, drag, pinch, buttons) shares the same math and can be tested
// without a browser. The DOM binding in dom.go drives those functions
// through the Document and Element interfaces; jsdom_wasm.go adapts them
// to syscall/js for the WebAssembly build.
package viewport

import (
	"fmt"
	"math"
	"strconv"
)

// Default zoom configuration, used when a container attribute is missing
// or unparseable.
const (
	DefaultInitialZoom = 1.0
	DefaultMinZoom     = 0.1
	DefaultMaxZoom     = 5.0
)

const (
	// ZoomInFactor and ZoomOutFactor are the button steps.
	ZoomInFactor  = 1.25
	ZoomOutFactor = 0.8

	wheelOut = 0.9
	wheelIn  = 1.1

	// centerFill is the share of the container a centered viewport fills.
	centerFill = 0.9

	// fallbackViewport is used when the viewport size cannot be read.
	fallbackViewport = 1000.0

	zoomTolerance = 0.001
	panTolerance  = 1.0
)

// Point is a position in container coordinates (CSS pixels from the
// container's top-left corner) unless stated otherwise.
type Point struct {
	X, Y float64
}

// Size is a width and height in CSS pixels.
type Size struct {
	Width, Height float64
}

// Limits bounds the zoom factor.
type Limits struct {
	Min, Max float64
}

// Clamp returns z limited to [Min, Max].
func (l Limits) Clamp(z float64) float64 {
	return math.Max(l.Min, math.Min(l.Max, z))
}

// View is a zoom and pan pair.
type View struct {
	Zoom, PanX, PanY float64
}

// TouchState tracks an active two-finger gesture.
type TouchState struct {
	Active   bool
	Distance float64
	Mid      Point
}

// State is the per-container controller state.
type State struct {
	Zoom float64
	PanX float64
	PanY float64

	Panning bool
	// StartX and StartY are the press position minus the pan at press time.
	StartX float64
	StartY float64

	Touch TouchState

	// Default is the view the reset control returns to.
	Default View
}

// ZoomAt scales the view by factor around p, keeping the diagram point
// under p fixed on screen. The resulting zoom is clamped to lim.
func ZoomAt(s State, p Point, factor float64, lim Limits) State {
	prev := s.Zoom
	next := lim.Clamp(prev * factor)
	if prev <= 0 {
		s.Zoom = next
		return s
	}
	ratio := next / prev
	s.Zoom = next
	s.PanX = p.X - (p.X-s.PanX)*ratio
	s.PanY = p.Y - (p.Y-s.PanY)*ratio
	return s
}

// Center fits the viewport inside the container, never magnifying past
// 100%, centers it and makes the result the new default view. A container
// with no area keeps the current zoom and resets the pan.
func Center(s State, container, viewport Size, lim Limits) State {
	if viewport.Width <= 0 {
		viewport.Width = fallbackViewport
	}
	if viewport.Height <= 0 {
		viewport.Height = fallbackViewport
	}
	if container.Width <= 0 || container.Height <= 0 {
		s.Zoom = lim.Clamp(s.Zoom)
		s.PanX, s.PanY = 0, 0
		return Snapshot(s)
	}

	fit := math.Min(math.Min(container.Width/viewport.Width, container.Height/viewport.Height), 1)
	s.Zoom = lim.Clamp(fit * centerFill)
	s.PanX = (container.Width - viewport.Width*s.Zoom) / 2
	s.PanY = (container.Height - viewport.Height*s.Zoom) / 2
	return Snapshot(s)
}

// Snapshot records the current view as the default.
func Snapshot(s State) State {
	s.Default = View{Zoom: s.Zoom, PanX: s.PanX, PanY: s.PanY}
	return s
}

// ResetVisible reports whether the view has drifted from the default far
// enough to offer a reset.
func ResetVisible(s State) bool {
	return math.Abs(s.Zoom-s.Default.Zoom) > zoomTolerance ||
		math.Abs(s.PanX-s.Default.PanX) > panTolerance ||
		math.Abs(s.PanY-s.Default.PanY) > panTolerance
}

// Transform returns the CSS transform for s.
func Transform(s State) string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", num(s.PanX), num(s.PanY), num(s.Zoom))
}

// WheelFactor maps a wheel delta to a zoom step. Scrolling down zooms out.
func WheelFactor(deltaY float64) float64 {
	switch {
	case deltaY > 0:
		return wheelOut
	case deltaY < 0:
		return wheelIn
	default:
		return 1
	}
}

// ScrollMetrics are the scroll and box dimensions of an element.
type ScrollMetrics struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientWidth  float64
	ClientHeight float64
	OffsetWidth  float64
	OffsetHeight float64
}

// WheelScrolls reports whether a wheel event over a content region should
// scroll the region natively instead of zooming. That is the case while
// the region can still scroll in the direction of travel.
func WheelScrolls(m ScrollMetrics, deltaY float64) bool {
	if m.ScrollHeight <= m.ClientHeight {
		return false
	}
	atTop := m.ScrollTop <= 0
	atBottom := m.ScrollTop+m.ClientHeight >= m.ScrollHeight-1
	if atTop && deltaY < 0 {
		return false
	}
	if atBottom && deltaY > 0 {
		return false
	}
	return true
}

// OnScrollbar reports whether an element-relative offset falls on one of
// the element's visible scrollbars.
func OnScrollbar(m ScrollMetrics, offsetX, offsetY float64) bool {
	if m.OffsetWidth > m.ClientWidth && offsetX >= m.ClientWidth {
		return true
	}
	return m.OffsetHeight > m.ClientHeight && offsetY >= m.ClientHeight
}

// BeginPan starts a drag at the client position p.
func BeginPan(s State, p Point) State {
	s.Panning = true
	s.StartX = p.X - s.PanX
	s.StartY = p.Y - s.PanY
	return s
}

// MovePan follows the pointer to p. It does nothing unless a pan is active.
func MovePan(s State, p Point) State {
	if !s.Panning {
		return s
	}
	s.PanX = p.X - s.StartX
	s.PanY = p.Y - s.StartY
	return s
}

// EndPan finishes a drag.
func EndPan(s State) State {
	s.Panning = false
	return s
}

// BeginPinch starts a two-finger gesture with touches at a and b. Any
// drag in progress is abandoned.
func BeginPinch(s State, a, b Point) State {
	s.Panning = false
	s.Touch = TouchState{Active: true, Distance: distance(a, b), Mid: midpoint(a, b)}
	return s
}

// MovePinch zooms by the change in finger distance around the current
// midpoint, then pans by how far the midpoint itself moved.
func MovePinch(s State, a, b Point, lim Limits) State {
	if !s.Touch.Active {
		return s
	}
	d := distance(a, b)
	mid := midpoint(a, b)
	if s.Touch.Distance > 0 && d > 0 {
		s = ZoomAt(s, mid, d/s.Touch.Distance, lim)
	}
	s.PanX += mid.X - s.Touch.Mid.X
	s.PanY += mid.Y - s.Touch.Mid.Y
	s.Touch.Distance = d
	s.Touch.Mid = mid
	return s
}

// EndPinch finishes a two-finger gesture.
func EndPinch(s State) State {
	s.Touch = TouchState{}
	return s
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
