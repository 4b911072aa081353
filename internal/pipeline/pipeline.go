// Package pipeline assembles a project context from a batch of raw
// definition files: concurrent per-file parsing, a single-threaded merge,
// and an amortization pass that pre-extracts script fields and pre-parses
// every distinct snippet so downstream rules never re-parse shared content.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/snedea/arcane-auditor/pkg/model"
	"github.com/snedea/arcane-auditor/pkg/script"
)

const (
	// serialThreshold is the batch size at or below which files are parsed
	// serially in the caller's goroutine.
	serialThreshold = 3
	// maxWorkers caps the parsing pool.
	maxWorkers = 10
)

// ParseFunc parses stripped script text into a syntax tree.
type ParseFunc func(string) (*script.Program, error)

// Config holds pipeline configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Workers caps the worker pool; 0 means min(10, len(files)).
	Workers int
	// Parse overrides the script parser; nil means script.Parse. Tests use
	// this to count parse invocations.
	Parse ParseFunc
}

// Pipeline parses batches of definition files into project contexts.
// The parser handle is fixed at construction; there is no hidden
// module-level parser state.
type Pipeline struct {
	logger  *slog.Logger
	workers int
	parse   ParseFunc
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	parse := cfg.Parse
	if parse == nil {
		parse = script.Parse
	}
	return &Pipeline{
		logger:  logger,
		workers: cfg.Workers,
		parse:   parse,
	}
}

// fileResult is one worker's isolated output: a typed model or the error
// that file produced. Workers never touch shared state.
type fileResult struct {
	path  string
	model model.Model
	err   error
}

// ParseBatch parses every recognized file in the input map and assembles
// the project context. A per-file failure is recorded in ParsingErrors and
// never aborts the batch. Results merge in completion order; nothing in
// the design depends on that order.
func (p *Pipeline) ParseBatch(ctx context.Context, files map[string]string) *ProjectContext {
	pc := newProjectContext()

	paths := make([]string, 0, len(files))
	for path := range files {
		if model.KindForPath(path) == model.KindUnknown {
			// Unrecognized extensions are silently ignored.
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	pc.Coverage = coverageFromPaths(paths)

	if len(paths) <= serialThreshold {
		p.logger.Debug("parsing batch serially", "files", len(paths))
		for _, path := range paths {
			p.mergeResult(pc, p.parseFile(path, files[path]))
		}
	} else {
		p.parsePooled(ctx, pc, paths, files)
	}

	p.amortize(pc)

	p.logger.Debug("batch complete",
		"models", pc.ModelCount(),
		"errors", len(pc.ParsingErrors),
		"cached_snippets", len(pc.astCache))
	return pc
}

// parsePooled partitions work across a bounded pool. Each worker parses
// into its own isolated result; the merge loop below is the only writer of
// shared state, so the parallel phase needs no locks.
func (p *Pipeline) parsePooled(ctx context.Context, pc *ProjectContext, paths []string, files map[string]string) {
	workers := p.workers
	if workers <= 0 || workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	p.logger.Debug("parsing batch pooled", "files", len(paths), "workers", workers)

	results := make(chan fileResult)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	go func() {
		for _, path := range paths {
			path := path
			eg.Go(func() error {
				select {
				case results <- p.parseFile(path, files[path]):
				case <-egctx.Done():
				}
				return nil
			})
		}
		_ = eg.Wait()
		close(results)
	}()

	// Merge in completion order. This loop runs on the orchestrator
	// goroutine and owns all writes to the context.
	for res := range results {
		p.mergeResult(pc, res)
	}
}

// parseFile builds one file's model, converting panics into recorded
// worker errors so a bad file degrades coverage, not availability.
func (p *Pipeline) parseFile(path, text string) (res fileResult) {
	res.path = path
	defer func() {
		if r := recover(); r != nil {
			res.model = nil
			res.err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	res.model, res.err = model.Build(path, text)
	return res
}

// mergeResult folds one file result into the shared context.
func (p *Pipeline) mergeResult(pc *ProjectContext, res fileResult) {
	if res.err != nil {
		p.logger.Debug("file failed", "file", res.path, "error", res.err)
		pc.ParsingErrors = append(pc.ParsingErrors, fmt.Sprintf("%s: %v", res.path, shortMessage(res.err)))
		return
	}

	switch m := res.model.(type) {
	case *model.Page:
		// Id collisions are an authoring error reported elsewhere; later
		// merge overwrites.
		pc.Pages[m.ID()] = m
	case *model.Fragment:
		pc.Fragments[m.ID()] = m
	case *model.App:
		// Singleton: first successful assignment wins.
		if pc.App != nil {
			p.logger.Warn("duplicate app definition ignored", "file", res.path, "using", pc.App.Path())
			pc.ParsingErrors = append(pc.ParsingErrors,
				fmt.Sprintf("%s: duplicate app definition ignored (using %s)", res.path, pc.App.Path()))
			return
		}
		pc.App = m
	case *model.Site:
		if pc.Site != nil {
			p.logger.Warn("duplicate site definition ignored", "file", res.path, "using", pc.Site.Path())
			pc.ParsingErrors = append(pc.ParsingErrors,
				fmt.Sprintf("%s: duplicate site definition ignored (using %s)", res.path, pc.Site.Path()))
			return
		}
		pc.Site = m
	case *model.ScriptFile:
		pc.Scripts[m.ID()] = m
	}
}

// amortize is the single-threaded post-merge pass: extract every model's
// ordered script fields, then parse each distinct stripped snippet exactly
// once into the project-wide AST cache. Cache population is deliberately
// not concurrent; it completes before any downstream rule evaluation.
func (p *Pipeline) amortize(pc *ProjectContext) {
	for _, m := range modelsInOrder(pc) {
		fields := model.ScriptFields(m)
		if len(fields) == 0 {
			continue
		}
		pc.scriptFields[ModelKey(m)] = fields

		for _, field := range fields {
			stripped, _ := script.StripWrapper(field.RawText)
			if stripped == "" {
				continue
			}
			if _, ok := pc.astCache[stripped]; ok {
				continue
			}
			tree, err := p.parse(stripped)
			pc.astCache[stripped] = &ASTEntry{Tree: tree, Err: err}
		}
	}
}

// modelsInOrder returns script-bearing models in a deterministic order:
// pages, fragments, then standalone scripts, each sorted by id.
func modelsInOrder(pc *ProjectContext) []model.Model {
	var models []model.Model
	for _, id := range sortedKeys(pc.Pages) {
		models = append(models, pc.Pages[id])
	}
	for _, id := range sortedKeys(pc.Fragments) {
		models = append(models, pc.Fragments[id])
	}
	for _, id := range sortedKeys(pc.Scripts) {
		models = append(models, pc.Scripts[id])
	}
	return models
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// shortMessage unwraps the builder's decode error to keep the recorded
// entry "<path>: <message>" without repeating the path.
func shortMessage(err error) string {
	if de, ok := err.(*model.DecodeError); ok {
		return fmt.Sprintf("invalid JSON after preprocessing: %v", de.Err)
	}
	return err.Error()
}
