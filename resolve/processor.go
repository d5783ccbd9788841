package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Options is the complete configuration surface of the resolution core.
// Loading and merging happens at the program boundary, the core only ever
// sees this one struct.
type Options struct {
	// Absolute emits resolved paths as filesystem-absolute instead of
	// relative to the output file.
	Absolute bool
	// KeepQuery retains ?query and #hash fragments on rewritten tokens.
	// Candidate paths are computed from the bare URI either way.
	KeepQuery bool
	// Root is an extra absolute search base for root-relative URIs. Empty
	// string is a valid no-op root, nil disables root candidates entirely.
	Root *string
	// Join overrides the resolution strategy. Nil selects the filesystem
	// default.
	Join Joiner
	// FS backs the default join strategy. Nil selects the real filesystem.
	FS Filesystem
}

// Validate fails fast on option combinations that would otherwise surface
// mid-run. Called once at setup, before any file is processed.
func (o *Options) Validate() error {
	if o.Root != nil && len(*o.Root) != 0 && !filepath.IsAbs(*o.Root) {
		return configErr("root must be an absolute path, got %q", *o.Root)
	}
	return nil
}

// LookupFunc maps a generated position (zero based line and column) to the
// absolute path of the original source. A false return is a lookup miss.
type LookupFunc func(line, column int32) (string, bool)

// Processor rewrites url() tokens of one file's declarations. It is built
// per processed file and never shared across files.
type Processor struct {
	log     *zap.Logger
	opts    *Options
	join    Joiner
	lookup  LookupFunc
	fileDir string // directory of the file being processed, lookup fallback
	outDir  string // directory of the file being emitted, base for relative rewrites

	diags []Diagnostic
	err   error
}

// NewProcessor binds the resolution core to one file. lookup may be nil when
// no inbound source map exists, every token then resolves against fileDir.
func NewProcessor(log *zap.Logger, opts *Options, lookup LookupFunc, fileDir, outDir string) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	join := opts.Join
	if join == nil {
		fs := opts.FS
		if fs == nil {
			fs = OSFilesystem()
		}
		join = FilesystemJoiner(fs)
	}
	return &Processor{
		log:     log.Named("resolve"),
		opts:    opts,
		join:    join,
		lookup:  lookup,
		fileDir: fileDir,
		outDir:  outDir,
	}
}

// Transform rewrites one declaration value. line and column are the value's
// zero based generated position. Per-token misses keep the original text and
// never abort sibling tokens; a failing join strategy latches Err and turns
// the rest of the file into a pass-through.
func (p *Processor) Transform(value string, line, column int32) string {
	if p.err != nil {
		return value
	}

	var sb strings.Builder
	last := 0
	for tok := range Scan(value) {
		repl, ok := p.resolveToken(tok, line, column)
		if p.err != nil {
			return value
		}
		if !ok {
			continue
		}
		sb.WriteString(value[last:tok.Start])
		sb.WriteString(repl)
		last = tok.End
	}
	if last == 0 {
		return value
	}
	sb.WriteString(value[last:])
	return sb.String()
}

// Err reports a latched file-level failure (a join strategy error). The
// caller aborts the file and falls back to its original content.
func (p *Processor) Err() error {
	return p.err
}

// Diagnostics returns non-fatal findings collected so far.
func (p *Processor) Diagnostics() []Diagnostic {
	return p.diags
}

// resolveToken runs one token through lookup, candidate building and join.
// Returns the replacement text and whether the token should be rewritten.
func (p *Processor) resolveToken(tok Token, line, column int32) (string, bool) {
	baseDir := p.fileDir
	if p.lookup != nil {
		if src, ok := p.lookup(line, column); ok {
			baseDir = filepath.Dir(src)
		}
	}

	candidates := p.buildCandidates(tok.RawURI, baseDir)
	found, err := p.join(Request{
		URI:        tok.RawURI,
		Candidates: candidates,
		BaseDir:    baseDir,
		Options:    p.opts,
	})
	if err != nil {
		p.err = &JoinError{URI: tok.RawURI, Err: err}
		return "", false
	}
	if len(found) == 0 {
		p.log.Debug("Unresolved url() reference",
			zap.String("uri", tok.RawURI),
			zap.String("base", baseDir),
			zap.Int("candidates", len(candidates)))
		p.diags = append(p.diags, Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("cannot resolve %q from %s", tok.RawURI, baseDir),
		})
		return "", false
	}
	p.log.Debug("Resolved url() reference", zap.String("uri", tok.RawURI), zap.String("path", found))

	rewritten := found
	if !p.opts.Absolute {
		rel, err := filepath.Rel(p.outDir, found)
		if err != nil {
			// different volume etc. - keep the absolute form
			rel = found
		}
		rewritten = rel
	}
	rewritten = filepath.ToSlash(rewritten)
	if p.opts.KeepQuery {
		rewritten += tok.Query + tok.Hash
	}
	if tok.Quote != 0 {
		rewritten = string(tok.Quote) + rewritten + string(tok.Quote)
	}
	return rewritten, true
}

// buildCandidates orders the path guesses: source-map-derived directory
// first, explicit root option second, the literal URI last when it is
// already absolute.
func (p *Processor) buildCandidates(uri, baseDir string) []Candidate {
	uriPath := filepath.FromSlash(uri)

	candidates := []Candidate{{Path: joinPath(baseDir, uri), Origin: CandidateOriginSourceMap}}
	if p.opts.Root != nil && len(*p.opts.Root) != 0 && strings.HasPrefix(uri, "/") {
		candidates = append(candidates, Candidate{Path: joinPath(*p.opts.Root, uri), Origin: CandidateOriginRootOption})
	}
	if filepath.IsAbs(uriPath) {
		candidates = append(candidates, Candidate{Path: filepath.Clean(uriPath), Origin: CandidateOriginLiteral})
	}
	return candidates
}

// joinPath resolves a CSS URI against a base directory. Root-relative URIs
// lose their leading separator, filepath.Join takes care of the rest.
func joinPath(base, uri string) string {
	return filepath.Join(base, filepath.FromSlash(uri))
}
