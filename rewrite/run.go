package rewrite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssrebase/resolve"
	"cssrebase/state"
)

// Run is the CLI entry point for the rewrite subcommand. It walks the input,
// processes every stylesheet and writes results to the destination.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rewrite")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	opts := optionsFromConfig(env, cmd)
	proc, err := NewProcessor(env.Log, opts)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("engine", proc.eng.Name()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, proc, src, dst, env, log)
}

// optionsFromConfig builds processor options from configuration with command
// line flags taking precedence.
func optionsFromConfig(env *state.LocalEnv, cmd *cli.Command) Options {
	rc := env.Cfg.Rewrite

	opts := Options{
		Engine:    rc.Engine,
		SourceMap: rc.SourceMap,
		Silent:    rc.Silent,
		RemoveCR:  rc.RemoveCR,
		Resolve: resolve.Options{
			Absolute:  rc.Absolute,
			KeepQuery: rc.KeepQuery,
			Root:      rc.Root,
		},
	}
	if cmd.IsSet("engine") {
		opts.Engine = cmd.String("engine")
	}
	if cmd.IsSet("no-map") {
		opts.SourceMap = !cmd.Bool("no-map")
	}
	if cmd.IsSet("silent") {
		opts.Silent = cmd.Bool("silent")
	}
	if cmd.IsSet("absolute") {
		opts.Resolve.Absolute = cmd.Bool("absolute")
	}
	if cmd.IsSet("keep-query") {
		opts.Resolve.KeepQuery = cmd.Bool("keep-query")
	}
	if cmd.IsSet("root") {
		root := cmd.String("root")
		opts.Resolve.Root = &root
	}
	return opts
}

// process dispatches on the input type: single stylesheet or directory tree.
func process(ctx context.Context, proc *Processor, src, dst string, env *state.LocalEnv, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsRegular() {
		return processFile(ctx, proc, src, filepath.Join(dst, filepath.Base(src)), env, log)
	}
	if !fi.Mode().IsDir() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	var errs error
	count := 0
	walkErr := filepath.Walk(src, func(path string, info os.FileInfo, werr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if werr != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(werr))
			return nil
		}
		if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(path), ".css") {
			return nil
		}

		out := outputPath(src, path, dst, env.NoDirs)
		count++
		if perr := processFile(ctx, proc, path, out, env, log); perr != nil {
			// one broken file must not stop the rest of the tree
			log.Error("Unable to process file", zap.String("file", path), zap.Error(perr))
			errs = multierr.Append(errs, perr)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	if errs == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("dir", src))
	}
	return errs
}

// outputPath keeps the source directory structure under dst unless nodirs
// was requested.
func outputPath(srcRoot, path, dst string, noDirs bool) string {
	if noDirs {
		return filepath.Join(dst, filepath.Base(path))
	}
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(dst, rel)
}

// processFile rewrites one stylesheet and writes content plus optional map.
// A file-level processing error still produces output - the original content
// is written so the build pipeline always has something valid to ship.
func processFile(ctx context.Context, proc *Processor, src, out string, env *state.LocalEnv, log *zap.Logger) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", src, err)
	}
	content := string(data)
	inbound := LoadInboundMap(src, content)

	res, perr := proc.Process(ctx, Request{
		ResourcePath: src,
		OutputPath:   out,
		Content:      StripMapComment(content),
		InboundMap:   inbound,
	})

	if !proc.opts.Silent {
		for _, d := range res.Diagnostics {
			log.Warn("Resolution diagnostic", zap.String("file", src), zap.Stringer("severity", d.Severity), zap.String("detail", d.Message))
		}
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("files/%s.txt", filepath.Base(src)), summarize(src, out, res, perr))
	}

	if _, serr := os.Stat(out); serr == nil && !env.Overwrite {
		return fmt.Errorf("destination file already exists (%s), use overwrite flag", out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	outContent := res.Content
	if res.Map != nil {
		mapName := filepath.Base(out) + ".map"
		encoded, merr := res.Map.Encode()
		if merr != nil {
			return fmt.Errorf("unable to encode source map for %q: %w", src, merr)
		}
		if werr := os.WriteFile(out+".map", encoded, 0644); werr != nil {
			return fmt.Errorf("unable to write source map: %w", werr)
		}
		outContent = AppendMapComment(outContent, mapName)
	}
	if err := os.WriteFile(out, []byte(outContent), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return perr
}

// summarize renders a per-file report entry for debug archives.
func summarize(src, out string, res Result, err error) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "source: %s\noutput: %s\nmap: %v\n", src, out, res.Map != nil)
	if err != nil {
		fmt.Fprintf(&sb, "error: %v\n", err)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(&sb, "%s: %s\n", d.Severity, d.Message)
	}
	return []byte(sb.String())
}
