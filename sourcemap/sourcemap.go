// Package sourcemap reads, queries and writes standard v3 source maps.
package sourcemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// FormatError indicates that inbound source map cannot be used. It is fatal
// for the file being processed but must never abort the whole run.
type FormatError struct {
	msg string
	err error
}

func (e *FormatError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("source map format: %s: %v", e.msg, e.err)
	}
	return "source map format: " + e.msg
}

func (e *FormatError) Unwrap() error {
	return e.err
}

func formatErr(msg string, err error) *FormatError {
	return &FormatError{msg: msg, err: err}
}

// Mapping is a single decoded segment. All positions are zero based, columns
// are counted in UTF-16 code units to stay compatible with the rest of the
// source map ecosystem.
type Mapping struct {
	GeneratedLine   int32
	GeneratedColumn int32
	SourceIndex     int32 // -1 when segment carries no original position
	OriginalLine    int32
	OriginalColumn  int32
	NameIndex       int32 // -1 when absent
}

// SourceMap is a fully decoded source map. Mappings are ordered by generated
// position, the way every producing tool emits them.
type SourceMap struct {
	File           string
	SourceRoot     string
	Sources        []string
	SourcesContent []*string
	Names          []string
	Mappings       []Mapping
}

type jsonMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Parse decodes a source map from its JSON wire form. A JSON-encoded string
// containing a map is accepted too - some toolchains hand maps around twice
// quoted. Anything unparsable is a FormatError.
func Parse(data []byte) (*SourceMap, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, formatErr("empty input", nil)
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, formatErr("unparsable JSON string", err)
		}
		return Parse([]byte(inner))
	}

	var jm jsonMap
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&jm); err != nil {
		return nil, formatErr("unparsable JSON", err)
	}
	if jm.Version != 3 {
		return nil, formatErr(fmt.Sprintf("unsupported version %d", jm.Version), nil)
	}
	if jm.Sources == nil {
		return nil, formatErr("missing sources", nil)
	}

	mappings, err := decodeMappings(jm.Mappings)
	if err != nil {
		return nil, err
	}
	for i := range mappings {
		if si := mappings[i].SourceIndex; si >= 0 && int(si) >= len(jm.Sources) {
			return nil, formatErr(fmt.Sprintf("mapping %d references source %d of %d", i, si, len(jm.Sources)), nil)
		}
	}

	return &SourceMap{
		File:           jm.File,
		SourceRoot:     jm.SourceRoot,
		Sources:        jm.Sources,
		SourcesContent: jm.SourcesContent,
		Names:          jm.Names,
		Mappings:       mappings,
	}, nil
}

// Encode serializes the map back to its JSON wire form. Sources are always
// written with forward slashes regardless of host OS.
func (sm *SourceMap) Encode() ([]byte, error) {
	sources := make([]string, len(sm.Sources))
	for i, s := range sm.Sources {
		sources[i] = filepath.ToSlash(s)
	}
	names := sm.Names
	if names == nil {
		names = []string{}
	}
	jm := jsonMap{
		Version:        3,
		File:           sm.File,
		SourceRoot:     sm.SourceRoot,
		Sources:        sources,
		SourcesContent: sm.SourcesContent,
		Names:          names,
		Mappings:       encodeMappings(sm.Mappings),
	}
	return json.Marshal(jm)
}

// Find returns the closest mapping at or before the given generated position
// on the same generated line, or nil. This matches the lookup semantics of
// the Mozilla source-map library.
func (sm *SourceMap) Find(line, column int32) *Mapping {
	mappings := sm.Mappings

	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		m := mappings[i]
		if m.GeneratedLine < line || (m.GeneratedLine == line && m.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	if index > 0 {
		m := &mappings[index-1]
		if m.GeneratedLine == line {
			return m
		}
	}
	return nil
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (sm *SourceMap) Clone() *SourceMap {
	out := &SourceMap{
		File:       sm.File,
		SourceRoot: sm.SourceRoot,
		Sources:    append([]string(nil), sm.Sources...),
		Names:      append([]string(nil), sm.Names...),
		Mappings:   append([]Mapping(nil), sm.Mappings...),
	}
	if sm.SourcesContent != nil {
		out.SourcesContent = append([]*string(nil), sm.SourcesContent...)
	}
	return out
}
