//go:build js && wasm

// Command viewport-wasm is the browser half of canvasdoc. Built with
// GOOS=js GOARCH=wasm, it binds every canvas container on the page and
// rebinds after each client-side navigation.
package main

import "github.com/ziadkadry99/canvasdoc/internal/viewport"

func main() {
	doc := viewport.BrowserDocument()
	ctrl := viewport.NewController(doc)

	ctrl.Init()
	doc.On("nav", func(*viewport.Event) { ctrl.Init() })

	select {}
}
