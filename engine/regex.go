package engine

import (
	"regexp"

	"cssrebase/sourcemap"
)

func init() {
	Register(regexEngine{})
}

// declPattern picks out declarations whose value contains a url() reference.
// Property name, then the value up to the end of the declaration.
var declPattern = regexp.MustCompile(`(?i)([-a-zA-Z][-\w]*)\s*:\s*([^;{}]*url\s*\([^;{}]*)`)

// regexEngine is the lightweight fallback walker. It has no comment or
// string awareness - url() inside a comment will be rewritten too - but it
// needs no lexing pass and handles the overwhelmingly common shapes.
type regexEngine struct{}

func (regexEngine) Name() string {
	return "regex"
}

func (regexEngine) Process(resourcePath, content string, cfg Config) (Result, error) {
	idx := indexLines(content)

	var edits []edit
	for _, m := range declPattern.FindAllStringSubmatchIndex(content, -1) {
		valueStart, valueEnd := m[4], m[5]
		value := content[valueStart:valueEnd]
		rewritten := cfg.Transform(value, idx.position(content, valueStart))
		if rewritten != value {
			edits = append(edits, edit{start: valueStart, end: valueEnd, text: rewritten})
		}
	}

	out := Result{Content: applyEdits(content, edits)}
	if cfg.OutputSourceMap {
		var m *sourcemap.SourceMap
		if cfg.InboundMap != nil {
			m = cfg.InboundMap.Clone()
		} else {
			m = identityMap(resourcePath, idx)
		}
		shiftMappings(m, content, edits, idx)
		out.Map = m
	}
	return out, nil
}
