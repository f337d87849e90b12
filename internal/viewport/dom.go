package viewport

// Class names and attributes shared with the renderer's markup.
const (
	containerSelector  = ".canvas-container"
	viewportSelector   = ".canvas-viewport"
	contentSelector    = ".canvas-node-content"
	fullscreenSelector = ".canvas-fullscreen-toggle"
	zoomInSelector     = ".canvas-zoom-in"
	zoomOutSelector    = ".canvas-zoom-out"
	resetSelector      = ".canvas-reset-view"
	iframeSelector     = ".canvas-iframe-wrapper iframe"
	wrapperSelector    = ".canvas-iframe-wrapper"

	fullscreenClass   = "canvas-fullscreen"
	iframeFailedClass = "canvas-iframe-failed"
	initializedAttr   = "data-initialized"
)

// Rect is an element's bounding box in client coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// EventTarget is anything listeners can be attached to. The returned
// function removes the listener.
type EventTarget interface {
	On(event string, handler func(*Event)) (remove func())
}

// Element is the subset of the DOM element API the controller uses.
// Lookups return nil when nothing matches.
type Element interface {
	EventTarget

	Attr(name string) string
	SetAttr(name, value string)
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	Closest(selector string) Element

	HasClass(class string) bool
	AddClass(class string)
	RemoveClass(class string)
	ToggleClass(class string)

	Style(property string) string
	SetStyle(property, value string)

	Rect() Rect
	Scroll() ScrollMetrics
	SetPointerCapture(pointerID int)
}

// Document is the page the controller runs in.
type Document interface {
	EventTarget

	QuerySelectorAll(selector string) []Element

	// AddCleanup registers fn with the page lifecycle so it runs when the
	// user navigates away.
	AddCleanup(fn func())
}

// Event carries the fields of a DOM event the handlers read.
type Event struct {
	Target Element

	ClientX, ClientY float64
	OffsetX, OffsetY float64
	DeltaY           float64
	Button           int
	PointerID        int
	Key              string

	// Touches are the active touch points in client coordinates.
	Touches []Point

	preventDefault func()
}

// PreventDefault stops the browser's default handling of the event.
func (e *Event) PreventDefault() {
	if e.preventDefault != nil {
		e.preventDefault()
	}
}

// Scope owns a set of listeners and other teardown work and releases all
// of it at once.
type Scope struct {
	releases []func()
	released bool
}

// Listen attaches handler to target for the lifetime of the scope.
func (s *Scope) Listen(target EventTarget, event string, handler func(*Event)) {
	if target == nil || s.released {
		return
	}
	s.releases = append(s.releases, target.On(event, handler))
}

// Defer schedules fn to run on Release.
func (s *Scope) Defer(fn func()) {
	if s.released {
		return
	}
	s.releases = append(s.releases, fn)
}

// Release runs the teardown work in reverse order. Calls after the first
// do nothing.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// Len returns the number of pending teardown entries.
func (s *Scope) Len() int {
	return len(s.releases)
}

// Controller binds every canvas container on a page.
type Controller struct {
	doc Document
}

// NewController returns a controller for doc.
func NewController(doc Document) *Controller {
	return &Controller{doc: doc}
}

// Init binds every container that is not already bound and returns how
// many it bound. It is safe to call on every navigation: bound
// containers are skipped, and containers torn down by the page lifecycle
// are bound again.
func (c *Controller) Init() int {
	bound := 0
	for _, container := range c.doc.QuerySelectorAll(containerSelector) {
		if container.Attr(initializedAttr) == "true" {
			continue
		}
		container.SetAttr(initializedAttr, "true")

		vp := container.QuerySelector(viewportSelector)
		if vp == nil {
			continue
		}
		inst := newInstance(c.doc, container, vp)
		inst.bind()
		c.doc.AddCleanup(inst.teardown)
		bound++
	}
	return bound
}

// instance is the controller state for one container.
type instance struct {
	doc       Document
	container Element
	viewport  Element
	reset     Element
	cfg       Config
	state     State
	scope     *Scope
}

func newInstance(doc Document, container, vp Element) *instance {
	cfg := ParseConfig(container.Attr)
	return &instance{
		doc:       doc,
		container: container,
		viewport:  vp,
		reset:     container.QuerySelector(resetSelector),
		cfg:       cfg,
		state:     State{Zoom: cfg.Limits.Clamp(cfg.InitialZoom)},
		scope:     &Scope{},
	}
}

func (in *instance) bind() {
	if in.cfg.DefaultFullscreen && !in.container.HasClass(fullscreenClass) {
		in.container.AddClass(fullscreenClass)
	}
	in.center()

	if in.cfg.Interactive {
		in.scope.Listen(in.container, "wheel", in.onWheel)
		in.scope.Listen(in.container, "pointerdown", in.onPointerDown)
		in.scope.Listen(in.container, "pointermove", in.onPointerMove)
		in.scope.Listen(in.container, "pointerup", in.onPointerUp)
		in.scope.Listen(in.container, "pointercancel", in.onPointerUp)
		in.scope.Listen(in.container, "touchstart", in.onTouchStart)
		in.scope.Listen(in.container, "touchmove", in.onTouchMove)
		in.scope.Listen(in.container, "touchend", in.onTouchEnd)
		in.scope.Listen(in.container, "touchcancel", in.onTouchEnd)

		in.scope.Listen(in.container.QuerySelector(zoomInSelector), "click", func(*Event) {
			in.zoomButton(ZoomInFactor)
		})
		in.scope.Listen(in.container.QuerySelector(zoomOutSelector), "click", func(*Event) {
			in.zoomButton(ZoomOutFactor)
		})
		in.scope.Listen(in.reset, "click", func(*Event) { in.center() })
	}

	if toggle := in.container.QuerySelector(fullscreenSelector); toggle != nil {
		in.scope.Listen(toggle, "click", func(*Event) { in.toggleFullscreen() })
		in.scope.Listen(in.doc, "keydown", in.onKeyDown)
	}

	for _, frame := range in.container.QuerySelectorAll(iframeSelector) {
		in.scope.Listen(frame, "error", func(*Event) { frameFailed(frame) })
	}
}

func (in *instance) teardown() {
	in.scope.Release()
	in.container.SetAttr(initializedAttr, "false")
}

// applyTransform is the only writer of the viewport transform.
func (in *instance) applyTransform() {
	in.viewport.SetStyle("transform", Transform(in.state))
	if in.reset == nil {
		return
	}
	if ResetVisible(in.state) {
		in.reset.SetStyle("display", "")
	} else {
		in.reset.SetStyle("display", "none")
	}
}

func (in *instance) center() {
	r := in.container.Rect()
	vp := Size{
		Width:  parsePx(in.viewport.Style("width")),
		Height: parsePx(in.viewport.Style("height")),
	}
	in.state = Center(in.state, Size{Width: r.Width, Height: r.Height}, vp, in.cfg.Limits)
	in.applyTransform()
}

func (in *instance) local(clientX, clientY float64) Point {
	r := in.container.Rect()
	return Point{X: clientX - r.Left, Y: clientY - r.Top}
}

func (in *instance) onWheel(e *Event) {
	if e.Target != nil {
		if region := e.Target.Closest(contentSelector); region != nil && WheelScrolls(region.Scroll(), e.DeltaY) {
			return
		}
	}
	e.PreventDefault()
	in.state = ZoomAt(in.state, in.local(e.ClientX, e.ClientY), WheelFactor(e.DeltaY), in.cfg.Limits)
	in.applyTransform()
}

func (in *instance) onPointerDown(e *Event) {
	if e.Button != 0 || in.state.Touch.Active {
		return
	}
	if t := e.Target; t != nil {
		if t.Closest("a") != nil || t.Closest("button") != nil {
			return
		}
		if OnScrollbar(t.Scroll(), e.OffsetX, e.OffsetY) {
			return
		}
	}
	in.state = BeginPan(in.state, Point{X: e.ClientX, Y: e.ClientY})
	in.container.SetPointerCapture(e.PointerID)
}

func (in *instance) onPointerMove(e *Event) {
	if !in.state.Panning {
		return
	}
	in.state = MovePan(in.state, Point{X: e.ClientX, Y: e.ClientY})
	in.applyTransform()
}

func (in *instance) onPointerUp(*Event) {
	in.state = EndPan(in.state)
}

func (in *instance) onTouchStart(e *Event) {
	if len(e.Touches) != 2 {
		return
	}
	e.PreventDefault()
	a, b := e.Touches[0], e.Touches[1]
	in.state = BeginPinch(in.state, in.local(a.X, a.Y), in.local(b.X, b.Y))
}

func (in *instance) onTouchMove(e *Event) {
	if !in.state.Touch.Active || len(e.Touches) != 2 {
		return
	}
	e.PreventDefault()
	a, b := e.Touches[0], e.Touches[1]
	in.state = MovePinch(in.state, in.local(a.X, a.Y), in.local(b.X, b.Y), in.cfg.Limits)
	in.applyTransform()
}

func (in *instance) onTouchEnd(e *Event) {
	if len(e.Touches) < 2 {
		in.state = EndPinch(in.state)
	}
}

func (in *instance) zoomButton(factor float64) {
	r := in.container.Rect()
	in.state = ZoomAt(in.state, Point{X: r.Width / 2, Y: r.Height / 2}, factor, in.cfg.Limits)
	in.applyTransform()
}

func (in *instance) toggleFullscreen() {
	in.container.ToggleClass(fullscreenClass)
	in.center()
}

func (in *instance) onKeyDown(e *Event) {
	if e.Key != "Escape" || !in.container.HasClass(fullscreenClass) {
		return
	}
	in.container.RemoveClass(fullscreenClass)
	in.center()
}

// frameFailed hides a link node's frame that the target site refused to
// load and reveals the new-tab fallback next to it.
func frameFailed(frame Element) {
	frame.SetStyle("display", "none")
	if wrapper := frame.Closest(wrapperSelector); wrapper != nil {
		wrapper.AddClass(iframeFailedClass)
	}
}
