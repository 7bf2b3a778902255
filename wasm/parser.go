//go:build wasm

package main

import (
	"context"
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/checker"
	"github.com/praetorian-inc/lessc/pkg/config"
)

// The browser has no filesystem, so imports are never followed.
var (
	cores   = make(map[int]*checker.Core)
	coresMu sync.RWMutex
	nextID  = 1

	defaultCore     *checker.Core
	defaultCoreErr  error
	defaultCoreOnce sync.Once
)

func newCore(opts ...lessc.Option) (*checker.Core, error) {
	p, err := lessc.NewParser(append(opts, lessc.WithoutImports())...)
	if err != nil {
		return nil, err
	}
	return checker.NewCore(p)
}

func getDefaultCore() (*checker.Core, error) {
	defaultCoreOnce.Do(func() {
		defaultCore, defaultCoreErr = newCore()
	})
	return defaultCore, defaultCoreErr
}

// newParser creates a parser from options JSON in the .lessc.json format
// (compress, strictImports, dumpLineNumbers).
// JS: LessNewParser(optionsJSON) -> {handle} or {error}
func newParser(this js.Value, args []js.Value) interface{} {
	cfg := config.Default()
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		var err error
		cfg, err = config.Parse([]byte(args[0].String()), "json")
		if err != nil {
			return map[string]interface{}{"error": "invalid options: " + err.Error()}
		}
	}

	core, err := newCore(lessc.WithConfig(cfg))
	if err != nil {
		return map[string]interface{}{"error": "failed to create parser: " + err.Error()}
	}

	coresMu.Lock()
	id := nextID
	nextID++
	cores[id] = core
	coresMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// parse parses one stylesheet with default options.
// JS: LessParse(content, filename) -> JSON result or {error}
func parse(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "content argument required"}
	}

	core, err := getDefaultCore()
	if err != nil {
		return map[string]interface{}{"error": "failed to create parser: " + err.Error()}
	}
	return check(core, args[0].String(), optionalString(args, 1))
}

// parseWith parses one stylesheet with a parser from LessNewParser.
// JS: LessParseWith(handle, content, filename) -> JSON result or {error}
func parseWith(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid parser handle"}
	}
	return check(core, args[1].String(), optionalString(args, 2))
}

// parseBatch parses several stylesheets with default options.
// JS: LessParseBatch(itemsJSON) -> JSON results or {error}
func parseBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "itemsJSON argument required"}
	}

	var items []checker.ContentItem
	if err := json.Unmarshal([]byte(args[0].String()), &items); err != nil {
		return map[string]interface{}{"error": "failed to parse items JSON: " + err.Error()}
	}

	core, err := getDefaultCore()
	if err != nil {
		return map[string]interface{}{"error": "failed to create parser: " + err.Error()}
	}

	batch, err := core.CheckBatch(context.Background(), items)
	if err != nil {
		return map[string]interface{}{"error": "batch parse failed: " + err.Error()}
	}
	return marshal(batch)
}

// closeParser releases a parser from LessNewParser.
// JS: LessCloseParser(handle)
func closeParser(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	coresMu.Lock()
	_, ok := cores[handle]
	if ok {
		delete(cores, handle)
	}
	coresMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid parser handle"}
	}
	return nil
}

func lookup(handle int) (*checker.Core, bool) {
	coresMu.RLock()
	defer coresMu.RUnlock()
	core, ok := cores[handle]
	return core, ok
}

func check(core *checker.Core, content, filename string) interface{} {
	result, err := core.Check(context.Background(), checker.ContentItem{Filename: filename, Content: content}, nil)
	if err != nil {
		return map[string]interface{}{"error": "parse failed: " + err.Error()}
	}
	return marshal(result)
}

func marshal(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal result: " + err.Error()}
	}
	return string(jsonBytes)
}

func optionalString(args []js.Value, i int) string {
	if len(args) > i && args[i].Type() == js.TypeString {
		return args[i].String()
	}
	return ""
}
