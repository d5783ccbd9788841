package rewrite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"cssrebase/rewrite"
	"cssrebase/sourcemap"
)

// tree lays out a project on disk: sources with assets in one place, the
// bundled stylesheet in another.
func tree(t *testing.T) (srcDir, distDir string) {
	t.Helper()
	root := t.TempDir()
	srcDir = filepath.Join(root, "src", "feature")
	distDir = filepath.Join(root, "dist")
	for _, dir := range []string{filepath.Join(srcDir, "img"), distDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(srcDir, "img", "cat.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	return srcDir, distDir
}

// inboundMap covers the bundle with a single segment pointing at the
// original stylesheet source.
func inboundMap(t *testing.T, source string) []byte {
	t.Helper()
	sm := &sourcemap.SourceMap{
		Sources: []string{source},
		Mappings: []sourcemap.Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, SourceIndex: 0, NameIndex: -1},
		},
	}
	data, err := sm.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestProcess_RewritesAgainstOriginalSource(t *testing.T) {
	srcDir, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{SourceMap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle := filepath.Join(distDir, "bundle.css")
	res, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: bundle,
		Content:      ".f { background: url(img/cat.png); }\n",
		InboundMap:   inboundMap(t, filepath.Join(srcDir, "page.scss")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := ".f { background: url(../src/feature/img/cat.png); }\n"
	if res.Content != want {
		t.Errorf("expected %q, got %q", want, res.Content)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %+v", res.Diagnostics)
	}
	if res.Map == nil {
		t.Fatal("expected an outbound map")
	}
	if res.Map.File != "bundle.css" {
		t.Errorf("unexpected map file: %q", res.Map.File)
	}
	// sources are rebased relative to the output location
	if got := res.Map.Sources[0]; got != filepath.FromSlash("../src/feature/page.scss") {
		t.Errorf("unexpected rebased source: %q", got)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	srcDir, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{SourceMap: true, Silent: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle := filepath.Join(distDir, "bundle.css")
	first, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: bundle,
		Content:      ".f { background: url(img/cat.png); }\n",
		InboundMap:   inboundMap(t, filepath.Join(srcDir, "page.scss")),
	})
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	firstMap, err := first.Map.Encode()
	if err != nil {
		t.Fatal(err)
	}
	second, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: bundle,
		Content:      first.Content,
		InboundMap:   firstMap,
	})
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Content != first.Content {
		t.Errorf("second pass changed content:\n%q\n%q", first.Content, second.Content)
	}
}

func TestProcess_NoMapFallsBackToFileDir(t *testing.T) {
	_, distDir := tree(t)

	// asset next to the stylesheet itself
	if err := os.MkdirAll(filepath.Join(distDir, "img"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(distDir, "img", "local.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outDir := filepath.Join(filepath.Dir(distDir), "out")
	res, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: filepath.Join(distDir, "page.css"),
		OutputPath:   filepath.Join(outDir, "page.css"),
		Content:      ".l { background: url(img/local.png); }\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ".l { background: url(../dist/img/local.png); }\n"
	if res.Content != want {
		t.Errorf("expected %q, got %q", want, res.Content)
	}
}

func TestProcess_MalformedMapReturnsOriginal(t *testing.T) {
	_, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := ".f { background: url(img/cat.png); }\n"
	res, perr := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: filepath.Join(distDir, "bundle.css"),
		Content:      content,
		InboundMap:   []byte("this is not a source map"),
	})

	var fe *sourcemap.FormatError
	if !errors.As(perr, &fe) {
		t.Fatalf("expected FormatError, got %v", perr)
	}
	if res.Content != content {
		t.Errorf("expected original content back, got %q", res.Content)
	}
}

func TestProcess_UnresolvedKeepsTokenAndWarns(t *testing.T) {
	srcDir, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := ".f { background: url(img/ghost.png); }\n"
	res, perr := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: filepath.Join(distDir, "bundle.css"),
		Content:      content,
		InboundMap:   inboundMap(t, filepath.Join(srcDir, "page.scss")),
	})
	if perr != nil {
		t.Fatalf("per-token miss must not be fatal: %v", perr)
	}
	if res.Content != content {
		t.Errorf("expected token kept, got %q", res.Content)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic, got %+v", res.Diagnostics)
	}
}

func TestProcess_SkipsExternalReferences(t *testing.T) {
	srcDir, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := ".f {\n" +
		"  background: url(data:image/gif;base64,R0lGOD);\n" +
		"  list-style-image: url(https://cdn.example.com/dot.png);\n" +
		"  mask: url(#clip);\n" +
		"}\n"
	res, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: filepath.Join(distDir, "bundle.css"),
		Content:      content,
		InboundMap:   inboundMap(t, filepath.Join(srcDir, "page.scss")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Content != content {
		t.Errorf("external references must pass through untouched:\n%q\n%q", content, res.Content)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("skipped references must not warn: %+v", res.Diagnostics)
	}
}

func TestProcess_RemoveCR(t *testing.T) {
	srcDir, distDir := tree(t)

	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{RemoveCR: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := proc.Process(context.Background(), rewrite.Request{
		ResourcePath: filepath.Join(distDir, "bundle.css"),
		Content:      ".f { background: url(img/cat.png); }\r\n",
		InboundMap:   inboundMap(t, filepath.Join(srcDir, "page.scss")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ".f { background: url(../src/feature/img/cat.png); }\n"
	if res.Content != want {
		t.Errorf("expected %q, got %q", want, res.Content)
	}
}

func TestNewProcessor_UnknownEngine(t *testing.T) {
	_, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{Engine: "bogus"})
	if err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestProcess_ContextCancelled(t *testing.T) {
	proc, err := rewrite.NewProcessor(zap.NewNop(), rewrite.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := ".f { background: url(img/cat.png); }\n"
	res, perr := proc.Process(ctx, rewrite.Request{ResourcePath: "bundle.css", Content: content})
	if perr == nil {
		t.Fatal("expected context error")
	}
	if res.Content != content {
		t.Errorf("expected original content back, got %q", res.Content)
	}
}
