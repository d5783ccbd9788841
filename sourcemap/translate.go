package sourcemap

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Translator owns the absolute-path form of an inbound map for the duration
// of one file's processing and answers position lookups against it.
type Translator struct {
	abs *SourceMap
}

// NewTranslator normalizes every source of m to an absolute filesystem path,
// resolving relative sources against contextDir. The original map is left
// untouched.
func NewTranslator(m *SourceMap, contextDir string) *Translator {
	abs := m.Clone()
	for i, src := range abs.Sources {
		abs.Sources[i] = absolutizeSource(src, m.SourceRoot, contextDir)
	}
	// sourceRoot is consumed by normalization, keeping it would apply it twice
	abs.SourceRoot = ""
	return &Translator{abs: abs}
}

// Map returns the map with absolute sources. Callers must not mutate it
// while lookups are still being served.
func (t *Translator) Map() *SourceMap {
	return t.abs
}

// Lookup maps a generated position (zero based) to the absolute path of the
// original source. Misses are expected and non-fatal - the second return is
// false and callers fall back to the processed file's own directory.
func (t *Translator) Lookup(line, column int32) (string, bool) {
	m := t.abs.Find(line, column)
	if m == nil || m.SourceIndex < 0 {
		return "", false
	}
	return t.abs.Sources[m.SourceIndex], true
}

// absolutizeSource converts one "sources" entry to an absolute filesystem
// path. Handles plain relative paths, already absolute paths, file: URLs and
// the bundler-style webpack:// pseudo scheme.
func absolutizeSource(src, sourceRoot, contextDir string) string {
	if strings.HasPrefix(src, "file://") {
		if u, err := url.Parse(src); err == nil && len(u.Path) != 0 {
			return filepath.Clean(filepath.FromSlash(u.Path))
		}
	}
	if i := strings.Index(src, "://"); i >= 0 {
		// pseudo schemes like webpack:///./src/a.scss hold a relative path
		src = strings.TrimLeft(src[i+3:], "/")
	}
	if len(sourceRoot) != 0 {
		src = strings.TrimSuffix(sourceRoot, "/") + "/" + strings.TrimPrefix(src, "/")
	}
	src = filepath.FromSlash(src)
	if filepath.IsAbs(src) {
		return filepath.Clean(src)
	}
	return filepath.Join(contextDir, src)
}

// Rebase converts every absolute source back to a path relative to
// outputDir, so the emitted map makes sense next to the file that embeds it.
// Sources that cannot be made relative are kept as is.
func Rebase(m *SourceMap, outputDir string) *SourceMap {
	out := m.Clone()
	for i, src := range out.Sources {
		if !filepath.IsAbs(src) {
			continue
		}
		if rel, err := filepath.Rel(outputDir, src); err == nil {
			out.Sources[i] = rel
		}
	}
	return out
}
