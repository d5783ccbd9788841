// Package rewrite drives url() re-basing for whole files: inbound map
// normalization, engine walk, outbound map finalization.
package rewrite

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"cssrebase/engine"
	"cssrebase/resolve"
	"cssrebase/sourcemap"
)

// Options configures one Processor. Validate before use.
type Options struct {
	// Engine names the registered CSS walker. Empty selects the default.
	Engine string
	// SourceMap requests an outbound map.
	SourceMap bool
	// Silent drops non-fatal diagnostics instead of logging them.
	Silent bool
	// RemoveCR strips carriage returns before parsing. Windows toolchains
	// produce CRLF content that column arithmetic cannot survive.
	RemoveCR bool
	// Resolve is the resolution core configuration.
	Resolve resolve.Options
}

// Validate fails fast, before any file is touched.
func (o *Options) Validate() error {
	name := o.Engine
	if len(name) == 0 {
		name = engine.DefaultName
	}
	if _, ok := engine.Get(name); !ok {
		return resolve.NewConfigurationError("unknown engine %q, have %v", name, engine.Names())
	}
	return o.Resolve.Validate()
}

// Request is one file to process. InboundMap is the raw map bytes (JSON
// object or JSON string) or nil when no map accompanies the file.
type Request struct {
	ResourcePath string
	OutputPath   string // where the rewritten file will live; empty means in place
	Content      string
	InboundMap   []byte
}

// Result of processing one file. On a file-level error Content is the
// original input, never partially rewritten CSS.
type Result struct {
	Content     string
	Map         *sourcemap.SourceMap
	Diagnostics []resolve.Diagnostic
}

// Processor rewrites url() references file by file. One Processor may serve
// many files; every Process call builds its own per-file state, so calls are
// safe to run concurrently.
type Processor struct {
	log  *zap.Logger
	opts Options
	eng  engine.Engine
}

// NewProcessor validates options and binds the selected engine.
func NewProcessor(log *zap.Logger, opts Options) (*Processor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	name := opts.Engine
	if len(name) == 0 {
		name = engine.DefaultName
	}
	eng, _ := engine.Get(name)
	return &Processor{log: log.Named("rewrite"), opts: opts, eng: eng}, nil
}

// Process rewrites one file. File-level failures (malformed inbound map,
// failing join strategy) return the original content untouched together
// with the error - the caller gets a safe fallback, never corrupted CSS.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Content: req.Content}, err
	}

	content := req.Content
	if p.opts.RemoveCR {
		content = stripCR(content)
	}

	outputPath := req.OutputPath
	if len(outputPath) == 0 {
		outputPath = req.ResourcePath
	}
	fileDir := filepath.Dir(req.ResourcePath)
	outDir := filepath.Dir(outputPath)

	var (
		translator *sourcemap.Translator
		lookup     resolve.LookupFunc
	)
	if len(req.InboundMap) != 0 {
		sm, err := sourcemap.Parse(req.InboundMap)
		if err != nil {
			return Result{Content: req.Content}, err
		}
		translator = sourcemap.NewTranslator(sm, fileDir)
		lookup = translator.Lookup
	}

	proc := resolve.NewProcessor(p.log, &p.opts.Resolve, lookup, fileDir, outDir)

	engCfg := engine.Config{
		OutputSourceMap: p.opts.SourceMap,
		Transform: func(value string, pos engine.Position) string {
			return proc.Transform(value, pos.Line, pos.Column)
		},
	}
	if translator != nil {
		engCfg.InboundMap = translator.Map()
	}

	res, err := p.eng.Process(req.ResourcePath, content, engCfg)
	if err != nil {
		return Result{Content: req.Content}, err
	}
	if err := proc.Err(); err != nil {
		return Result{Content: req.Content}, err
	}

	out := Result{Content: res.Content, Diagnostics: proc.Diagnostics()}
	if p.opts.SourceMap && res.Map != nil {
		out.Map = sourcemap.Rebase(res.Map, outDir)
		out.Map.File = filepath.Base(outputPath)
	}

	p.log.Debug("Processed file",
		zap.String("file", req.ResourcePath),
		zap.Int("diagnostics", len(out.Diagnostics)),
		zap.Bool("map", out.Map != nil))
	return out, nil
}

func stripCR(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
