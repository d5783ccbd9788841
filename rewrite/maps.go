package rewrite

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// sourceMappingURL comment shapes: inline base64 data URI or a reference to
// a sidecar file.
var (
	inlineMapPattern = regexp.MustCompile(`/\*#\s*sourceMappingURL=data:application/json[;a-zA-Z0-9=-]*;base64,([A-Za-z0-9+/=]+)\s*\*/`)
	mapRefPattern    = regexp.MustCompile(`/\*#\s*sourceMappingURL=([^*\s]+)\s*\*/`)
)

// LoadInboundMap finds the inbound map for a CSS file: sidecar file next to
// it, a sourceMappingURL reference, or an inline base64 comment. Returns nil
// when there is none - processing then falls back to the file's own
// directory.
func LoadInboundMap(resourcePath, content string) []byte {
	if data, err := os.ReadFile(resourcePath + ".map"); err == nil {
		return data
	}
	if m := inlineMapPattern.FindStringSubmatch(content); m != nil {
		if data, err := base64.StdEncoding.DecodeString(m[1]); err == nil {
			return data
		}
		return nil
	}
	if m := mapRefPattern.FindStringSubmatch(content); m != nil && !strings.Contains(m[1], "://") {
		if data, err := os.ReadFile(filepath.Join(filepath.Dir(resourcePath), m[1])); err == nil {
			return data
		}
	}
	return nil
}

// StripMapComment removes a trailing sourceMappingURL comment. The rewritten
// file gets its own comment appended, a stale one would point nowhere.
func StripMapComment(content string) string {
	out := inlineMapPattern.ReplaceAllString(content, "")
	out = mapRefPattern.ReplaceAllString(out, "")
	return strings.TrimRight(out, " \t\n") + "\n"
}

// AppendMapComment adds the sourceMappingURL reference for the emitted
// sidecar map.
func AppendMapComment(content, mapName string) string {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "/*# sourceMappingURL=" + mapName + " */\n"
}
