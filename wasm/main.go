//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("LessParse", js.FuncOf(parse))
	js.Global().Set("LessParseBatch", js.FuncOf(parseBatch))
	js.Global().Set("LessNewParser", js.FuncOf(newParser))
	js.Global().Set("LessParseWith", js.FuncOf(parseWith))
	js.Global().Set("LessCloseParser", js.FuncOf(closeParser))

	// Keep WASM running
	<-make(chan struct{})
}
