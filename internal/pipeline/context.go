package pipeline

import (
	"fmt"

	"github.com/snedea/arcane-auditor/pkg/model"
	"github.com/snedea/arcane-auditor/pkg/script"
)

// ASTEntry is one cached parse outcome: either a tree or the error the
// parser produced for that exact text. Failures are cached too so a
// repeated bad snippet is not re-parsed.
type ASTEntry struct {
	Tree *script.Program
	Err  error
}

// ErrorSink collects recorded analysis errors for callers that hold a
// mutable analysis context.
type ErrorSink struct {
	Errors []string
}

// ProjectContext owns every parsed model of one analysis run plus the
// amortization caches. It is built once per batch, handed to the external
// rule engine, and discarded; nothing persists across runs.
//
// The context is written only by the orchestrator goroutine during merge
// and amortization. After ParseBatch returns it is read-only and safe to
// share across rule-evaluation goroutines.
type ProjectContext struct {
	Pages     map[string]*model.Page
	Fragments map[string]*model.Fragment
	App       *model.App
	Site      *model.Site
	Scripts   map[string]*model.ScriptFile

	// ParsingErrors is append-only and never cleared; one entry per failed
	// file, formatted "<path>: <message>".
	ParsingErrors []string

	Coverage Coverage

	scriptFields map[string][]model.ScriptField
	astCache     map[string]*ASTEntry
}

// newProjectContext creates an empty context.
func newProjectContext() *ProjectContext {
	return &ProjectContext{
		Pages:        make(map[string]*model.Page),
		Fragments:    make(map[string]*model.Fragment),
		Scripts:      make(map[string]*model.ScriptFile),
		scriptFields: make(map[string][]model.ScriptField),
		astCache:     make(map[string]*ASTEntry),
	}
}

// ModelKey returns the cache key for a model: kind plus identity, so a page
// and a fragment sharing an id cannot collide.
func ModelKey(m model.Model) string {
	return m.ModelKind().String() + ":" + m.ID()
}

// CachedScriptFields returns the ordered script fields extracted for the
// model key during the amortization pass.
func (pc *ProjectContext) CachedScriptFields(modelKey string) []model.ScriptField {
	return pc.scriptFields[modelKey]
}

// CachedAST returns the cached parse outcome for exact stripped script
// text. ok is false when the text was never seen by the amortization pass.
func (pc *ProjectContext) CachedAST(strippedText string) (*ASTEntry, bool) {
	entry, ok := pc.astCache[strippedText]
	return entry, ok
}

// TreeForField returns the syntax tree for a script field, consulting the
// AST cache. Two caller paths exist deliberately: with a sink, a parse
// failure is recorded as "Script parsing failed for <field> in <path>:
// <detail>" and nil is returned; without a sink the caller simply receives
// no tree. Empty or blank field text yields no tree and no record.
func (pc *ProjectContext) TreeForField(m model.Model, field model.ScriptField, sink *ErrorSink) *script.Program {
	stripped, _ := script.StripWrapper(field.RawText)
	if stripped == "" {
		return nil
	}

	entry, ok := pc.astCache[stripped]
	if !ok {
		// Amortization did not see this text; parse on demand without
		// touching the cache (the context is read-only after build).
		tree, err := script.Parse(stripped)
		entry = &ASTEntry{Tree: tree, Err: err}
	}

	if entry.Err != nil {
		if sink != nil {
			sink.Errors = append(sink.Errors,
				fmt.Sprintf("Script parsing failed for %s in %s: %v", field.FieldPath, m.Path(), entry.Err))
		}
		return nil
	}
	return entry.Tree
}

// ModelCount returns the number of models in the context.
func (pc *ProjectContext) ModelCount() int {
	n := len(pc.Pages) + len(pc.Fragments) + len(pc.Scripts)
	if pc.App != nil {
		n++
	}
	if pc.Site != nil {
		n++
	}
	return n
}
