package sourcemap_test

import (
	"path/filepath"
	"testing"

	"cssrebase/sourcemap"
)

func TestTranslator_AbsolutizeSources(t *testing.T) {
	ctx := filepath.FromSlash("/proj/dist")

	cases := []struct {
		name       string
		source     string
		sourceRoot string
		want       string
	}{
		{"relative", "../src/a.scss", "", "/proj/src/a.scss"},
		{"dot relative", "./b.scss", "", "/proj/dist/b.scss"},
		{"already absolute", "/proj/src/c.scss", "", "/proj/src/c.scss"},
		{"file url", "file:///proj/src/d.scss", "", "/proj/src/d.scss"},
		{"bundler pseudo scheme", "webpack:///./src/e.scss", "", "/proj/dist/src/e.scss"},
		{"source root", "f.scss", "/proj/src", "/proj/src/f.scss"},
		{"source root trailing slash", "g.scss", "/proj/src/", "/proj/src/g.scss"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := &sourcemap.SourceMap{
				SourceRoot: tc.sourceRoot,
				Sources:    []string{tc.source},
			}
			tr := sourcemap.NewTranslator(sm, ctx)

			got := tr.Map().Sources[0]
			if got != filepath.FromSlash(tc.want) {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			if tr.Map().SourceRoot != "" {
				t.Errorf("expected sourceRoot to be consumed, got %q", tr.Map().SourceRoot)
			}
			// original map must stay untouched
			if sm.Sources[0] != tc.source {
				t.Errorf("original map was mutated: %q", sm.Sources[0])
			}
		})
	}
}

func TestTranslator_Lookup(t *testing.T) {
	sm := &sourcemap.SourceMap{
		Sources: []string{"../src/page.scss"},
		Mappings: []sourcemap.Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, SourceIndex: 0, NameIndex: -1},
			{GeneratedLine: 0, GeneratedColumn: 20, SourceIndex: -1, NameIndex: -1},
		},
	}
	tr := sourcemap.NewTranslator(sm, filepath.FromSlash("/proj/dist"))

	src, ok := tr.Lookup(0, 10)
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if src != filepath.FromSlash("/proj/src/page.scss") {
		t.Errorf("unexpected source: %q", src)
	}

	// segment without original position is a miss
	if _, ok := tr.Lookup(0, 25); ok {
		t.Error("expected miss on segment without source")
	}
	// line not covered by the map is a miss
	if _, ok := tr.Lookup(5, 0); ok {
		t.Error("expected miss on unmapped line")
	}
}

func TestRebase(t *testing.T) {
	sm := &sourcemap.SourceMap{
		Sources: []string{
			filepath.FromSlash("/proj/src/a.scss"),
			"kept/relative.scss",
		},
	}

	out := sourcemap.Rebase(sm, filepath.FromSlash("/proj/dist"))

	if got := out.Sources[0]; got != filepath.FromSlash("../src/a.scss") {
		t.Errorf("expected rebased source, got %q", got)
	}
	if got := out.Sources[1]; got != "kept/relative.scss" {
		t.Errorf("expected relative source kept as is, got %q", got)
	}
	if sm.Sources[0] != filepath.FromSlash("/proj/src/a.scss") {
		t.Errorf("original map was mutated: %q", sm.Sources[0])
	}
}

func TestRebase_RoundTrip(t *testing.T) {
	// absolutize then rebase against the same directory must reproduce the
	// original relative source
	ctx := filepath.FromSlash("/proj/dist")
	sm := &sourcemap.SourceMap{Sources: []string{"../src/feature/page.scss"}}

	tr := sourcemap.NewTranslator(sm, ctx)
	back := sourcemap.Rebase(tr.Map(), ctx)

	if got := back.Sources[0]; got != filepath.FromSlash("../src/feature/page.scss") {
		t.Errorf("round trip changed source: %q", got)
	}
}
