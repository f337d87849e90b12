//go:build js && wasm

package viewport

import "syscall/js"

// BrowserDocument returns the page's document.
func BrowserDocument() Document {
	return jsDocument{v: js.Global().Get("document")}
}

type jsDocument struct {
	v js.Value
}

func (d jsDocument) On(event string, handler func(*Event)) func() {
	return listen(d.v, event, handler)
}

func (d jsDocument) QuerySelectorAll(selector string) []Element {
	return elements(d.v.Call("querySelectorAll", selector))
}

func (d jsDocument) AddCleanup(fn func()) {
	add := js.Global().Get("window").Get("addCleanup")
	if add.Type() != js.TypeFunction {
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		cb.Release()
		return nil
	})
	add.Invoke(cb)
}

type jsElement struct {
	v js.Value
}

func wrap(v js.Value) Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return jsElement{v: v}
}

func elements(list js.Value) []Element {
	n := list.Length()
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, jsElement{v: list.Index(i)})
	}
	return out
}

func (e jsElement) On(event string, handler func(*Event)) func() {
	return listen(e.v, event, handler)
}

func (e jsElement) Attr(name string) string {
	v := e.v.Call("getAttribute", name)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (e jsElement) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e jsElement) QuerySelector(selector string) Element {
	return wrap(e.v.Call("querySelector", selector))
}

func (e jsElement) QuerySelectorAll(selector string) []Element {
	return elements(e.v.Call("querySelectorAll", selector))
}

func (e jsElement) Closest(selector string) Element {
	if e.v.Get("closest").Type() != js.TypeFunction {
		return nil
	}
	return wrap(e.v.Call("closest", selector))
}

func (e jsElement) HasClass(class string) bool {
	return e.v.Get("classList").Call("contains", class).Bool()
}

func (e jsElement) AddClass(class string) {
	e.v.Get("classList").Call("add", class)
}

func (e jsElement) RemoveClass(class string) {
	e.v.Get("classList").Call("remove", class)
}

func (e jsElement) ToggleClass(class string) {
	e.v.Get("classList").Call("toggle", class)
}

func (e jsElement) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e jsElement) SetStyle(property, value string) {
	e.v.Get("style").Call("setProperty", property, value)
}

func (e jsElement) Rect() Rect {
	r := e.v.Call("getBoundingClientRect")
	return Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

func (e jsElement) Scroll() ScrollMetrics {
	return ScrollMetrics{
		ScrollTop:    number(e.v, "scrollTop"),
		ScrollHeight: number(e.v, "scrollHeight"),
		ClientWidth:  number(e.v, "clientWidth"),
		ClientHeight: number(e.v, "clientHeight"),
		OffsetWidth:  number(e.v, "offsetWidth"),
		OffsetHeight: number(e.v, "offsetHeight"),
	}
}

func (e jsElement) SetPointerCapture(pointerID int) {
	e.v.Call("setPointerCapture", pointerID)
}

// listen registers a non-passive listener so handlers may call
// PreventDefault on wheel and touch events.
func listen(target js.Value, event string, handler func(*Event)) func() {
	opts := map[string]any{"passive": false}
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			handler(newEvent(args[0]))
		}
		return nil
	})
	target.Call("addEventListener", event, fn, opts)
	return func() {
		target.Call("removeEventListener", event, fn, opts)
		fn.Release()
	}
}

func newEvent(v js.Value) *Event {
	e := &Event{
		Target:         wrap(v.Get("target")),
		ClientX:        number(v, "clientX"),
		ClientY:        number(v, "clientY"),
		OffsetX:        number(v, "offsetX"),
		OffsetY:        number(v, "offsetY"),
		DeltaY:         number(v, "deltaY"),
		Button:         int(number(v, "button")),
		PointerID:      int(number(v, "pointerId")),
		preventDefault: func() { v.Call("preventDefault") },
	}
	if key := v.Get("key"); key.Type() == js.TypeString {
		e.Key = key.String()
	}
	if touches := v.Get("touches"); touches.Type() == js.TypeObject {
		for i := 0; i < touches.Length(); i++ {
			t := touches.Index(i)
			e.Touches = append(e.Touches, Point{X: number(t, "clientX"), Y: number(t, "clientY")})
		}
	}
	return e
}

func number(v js.Value, name string) float64 {
	f := v.Get(name)
	if f.Type() != js.TypeNumber {
		return 0
	}
	return f.Float()
}
