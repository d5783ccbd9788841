// Package engine hosts the interchangeable CSS walkers that drive
// declaration rewriting. Engines are selected by name from a finite
// registry, validated at configuration time.
package engine

import (
	"sort"
	"sync"

	"cssrebase/sourcemap"
)

// DefaultName selects the token-accurate lexer engine.
const DefaultName = "tdewolff"

// Position is a zero based generated position. Columns count UTF-16 code
// units, matching source map conventions.
type Position struct {
	Line   int32
	Column int32
}

// TransformFunc rewrites one declaration value given its generated position.
// It must return the value unchanged when there is nothing to do.
type TransformFunc func(value string, pos Position) string

// Config is everything an engine needs for one file.
type Config struct {
	// OutputSourceMap requests a map in the result. Without an inbound map
	// the engine synthesizes a line-identity one.
	OutputSourceMap bool
	// InboundMap is the absolutized inbound map, nil when none was supplied.
	// Engines never mutate it.
	InboundMap *sourcemap.SourceMap
	// Transform is the per-declaration callback.
	Transform TransformFunc
}

// Result is the rewritten file. Map is nil unless OutputSourceMap was set.
type Result struct {
	Content string
	Map     *sourcemap.SourceMap
}

// Engine walks CSS content and feeds every declaration value through the
// transform callback.
type Engine interface {
	Name() string
	Process(resourcePath, content string, cfg Config) (Result, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Engine)
)

// Register adds an engine to the registry. Registering the same name twice
// panics - it is a programming error, not a runtime condition.
func Register(e Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[e.Name()]; dup {
		panic("engine: duplicate registration of " + e.Name())
	}
	registry[e.Name()] = e
}

// Get returns a registered engine by name.
func Get(name string) (Engine, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// Names lists registered engines, sorted for stable help output.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
