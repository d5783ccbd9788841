package engine

import (
	"sort"
	"strings"

	"cssrebase/sourcemap"
)

// edit replaces content[start:end] with text. Rewrites never add or remove
// lines - the replacement has exactly as many lines as the span it covers.
type edit struct {
	start, end int
	text       string
}

// lineIndex maps byte offsets to generated positions.
type lineIndex []int // byte offset of each line start, always starts with 0

func indexLines(content string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// position converts a byte offset to a zero based generated position with a
// UTF-16 column, the unit source maps count in.
func (idx lineIndex) position(content string, offset int) Position {
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	return Position{
		Line:   int32(line),
		Column: utf16Len(content[idx[line]:offset]),
	}
}

func utf16Len(s string) int32 {
	var n int32
	for _, r := range s {
		if r <= 0xFFFF {
			n++
		} else {
			n += 2
		}
	}
	return n
}

// applyEdits splices replacements into content. Edits must be sorted by
// start offset and non-overlapping.
func applyEdits(content string, edits []edit) string {
	if len(edits) == 0 {
		return content
	}
	var sb strings.Builder
	last := 0
	for _, e := range edits {
		sb.WriteString(content[last:e.start])
		sb.WriteString(e.text)
		last = e.end
	}
	sb.WriteString(content[last:])
	return sb.String()
}

// shiftMappings adjusts generated columns of m for every edit, walking edits
// right to left so earlier coordinates stay valid while later ones move.
// Only mappings at or past the end of an edited line portion shift; mappings
// inside the edited span keep their position, they point at the start of
// what was rewritten.
func shiftMappings(m *sourcemap.SourceMap, content string, edits []edit, idx lineIndex) {
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		oldLines := strings.Split(content[e.start:e.end], "\n")
		newLines := strings.Split(e.text, "\n")
		if len(oldLines) != len(newLines) {
			// never produced by our transforms, bail out rather than corrupt
			continue
		}
		startPos := idx.position(content, e.start)
		for k := range oldLines {
			delta := utf16Len(newLines[k]) - utf16Len(oldLines[k])
			if delta == 0 {
				continue
			}
			line := startPos.Line + int32(k)
			endCol := utf16Len(oldLines[k])
			if k == 0 {
				endCol += startPos.Column
			}
			shiftLine(m, line, endCol, delta)
		}
	}
}

func shiftLine(m *sourcemap.SourceMap, line, fromCol, delta int32) {
	for i := range m.Mappings {
		mp := &m.Mappings[i]
		if mp.GeneratedLine == line && mp.GeneratedColumn >= fromCol {
			mp.GeneratedColumn += delta
		}
	}
}

// identityMap covers the file line by line with resourcePath as the only
// source. Used when a map was requested but none came in.
func identityMap(resourcePath string, idx lineIndex) *sourcemap.SourceMap {
	m := &sourcemap.SourceMap{Sources: []string{resourcePath}}
	for line := range idx {
		m.Mappings = append(m.Mappings, sourcemap.Mapping{
			GeneratedLine: int32(line),
			OriginalLine:  int32(line),
			NameIndex:     -1,
		})
	}
	return m
}
