// Package model maps preprocessed definition files onto typed, in-memory
// models. A model is constructed once per file and is logically immutable
// afterwards; the pipeline populates project-wide caches from it but never
// mutates it in place.
package model

import "github.com/snedea/arcane-auditor/pkg/source"

// Model is implemented by every parsed definition-file model.
type Model interface {
	ModelKind() Kind
	// ID is the model's identity key: the declared id, falling back to the
	// filename stem for pages.
	ID() string
	Path() string
}

// Common carries the per-file fields every model shares: the original
// path and text plus the line-recovery tables the preprocessor produced.
type Common struct {
	FilePath      string
	SourceContent string
	Table         source.LineTable
}

// Path returns the model's source file path.
func (c *Common) Path() string {
	return c.FilePath
}

// Endpoint is a single inbound or outbound data endpoint declaration.
type Endpoint struct {
	Name       string
	URL        string
	OnSend     string // embedded script, delimiters included
	OnReceive  string // embedded script, delimiters included
	BestEffort bool
}

// Page models a .pmd page definition.
type Page struct {
	Common
	PageID            string
	InboundEndpoints  []*Endpoint
	OutboundEndpoints []*Endpoint
	Presentation      map[string]any
	// Attributes holds flags hoisted out of the presentation sub-object,
	// e.g. microConclusion.
	Attributes map[string]any
	OnLoad     string
	OnSubmit   string
	Script     string
}

// ModelKind returns KindPage.
func (p *Page) ModelKind() Kind { return KindPage }

// ID returns the declared page id, or the filename stem when absent.
func (p *Page) ID() string {
	if p.PageID != "" {
		return p.PageID
	}
	return Stem(p.FilePath)
}

// Fragment models a .pod fragment definition.
type Fragment struct {
	Common
	FragmentID        string
	InboundEndpoints  []*Endpoint
	OutboundEndpoints []*Endpoint
	Presentation      map[string]any
	Attributes        map[string]any
	OnLoad            string
	Script            string
}

// ModelKind returns KindFragment.
func (f *Fragment) ModelKind() Kind { return KindFragment }

// ID returns the declared fragment id.
func (f *Fragment) ID() string {
	if f.FragmentID != "" {
		return f.FragmentID
	}
	return Stem(f.FilePath)
}

// App models the .amd application definition. Singleton per project.
type App struct {
	Common
	AppID string
	// Raw preserves the full decoded document for consumers that inspect
	// application-level declarations the typed fields do not cover.
	Raw map[string]any
}

// ModelKind returns KindApp.
func (a *App) ModelKind() Kind { return KindApp }

// ID returns the declared application id.
func (a *App) ID() string {
	if a.AppID != "" {
		return a.AppID
	}
	return Stem(a.FilePath)
}

// Site models the .smd site definition. Singleton per project.
type Site struct {
	Common
	SiteID string
	Raw    map[string]any
}

// ModelKind returns KindSite.
func (s *Site) ModelKind() Kind { return KindSite }

// ID returns the declared site id.
func (s *Site) ID() string {
	if s.SiteID != "" {
		return s.SiteID
	}
	return Stem(s.FilePath)
}

// ScriptFile models a standalone .script file: the whole content is one
// script source, no JSON structure and no preprocessing.
type ScriptFile struct {
	Common
}

// ModelKind returns KindScript.
func (s *ScriptFile) ModelKind() Kind { return KindScript }

// ID returns the filename stem.
func (s *ScriptFile) ID() string {
	return Stem(s.FilePath)
}
