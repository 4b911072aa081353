package model

import (
	"encoding/json"
	"fmt"

	"github.com/snedea/arcane-auditor/pkg/source"
)

// DecodeError reports a file whose preprocessed text failed to decode as
// JSON. It is never retried or heuristically recovered; the pipeline
// records it and drops the file from the project context.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid JSON after preprocessing: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnknownKindError reports a path whose extension is not one of the five
// recognized definition kinds.
type UnknownKindError struct {
	Path string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("%s: unrecognized definition file extension", e.Path)
}

// Build preprocesses and decodes one raw definition file into its typed
// model. The returned model carries the original text and the preprocessor's
// line tables.
func Build(path, text string) (Model, error) {
	kind := KindForPath(path)
	if kind == KindUnknown {
		return nil, &UnknownKindError{Path: path}
	}

	if kind == KindScript {
		return &ScriptFile{Common: Common{
			FilePath:      path,
			SourceContent: text,
		}}, nil
	}

	pre := source.Preprocess(text)
	common := Common{
		FilePath:      path,
		SourceContent: text,
		Table:         pre.Table,
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(pre.ProcessedText), &doc); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	switch kind {
	case KindPage:
		return buildPage(common, doc), nil
	case KindFragment:
		return buildFragment(common, doc), nil
	case KindApp:
		return buildApp(common, doc), nil
	default:
		return buildSite(common, doc), nil
	}
}

func buildPage(common Common, doc map[string]any) *Page {
	p := &Page{
		Common:     common,
		PageID:     stringField(doc, "id"),
		OnLoad:     stringField(doc, "onLoad"),
		OnSubmit:   stringField(doc, "onSubmit"),
		Script:     stringField(doc, "script"),
		Attributes: make(map[string]any),
	}
	p.InboundEndpoints = endpointList(doc["inboundEndpoints"])
	// Structural rename: the nested outbound.endpoints list is flattened.
	if outbound, ok := doc["outbound"].(map[string]any); ok {
		p.OutboundEndpoints = endpointList(outbound["endpoints"])
	}
	p.Presentation, p.Attributes = splitPresentation(doc["presentation"])
	return p
}

func buildFragment(common Common, doc map[string]any) *Fragment {
	f := &Fragment{
		Common:     common,
		FragmentID: stringField(doc, "id"),
		OnLoad:     stringField(doc, "onLoad"),
		Script:     stringField(doc, "script"),
		Attributes: make(map[string]any),
	}
	f.InboundEndpoints = endpointList(doc["inboundEndpoints"])
	if outbound, ok := doc["outbound"].(map[string]any); ok {
		f.OutboundEndpoints = endpointList(outbound["endpoints"])
	}
	f.Presentation, f.Attributes = splitPresentation(doc["presentation"])
	return f
}

func buildApp(common Common, doc map[string]any) *App {
	return &App{
		Common: common,
		AppID:  stringField(doc, "id"),
		Raw:    doc,
	}
}

func buildSite(common Common, doc map[string]any) *Site {
	return &Site{
		Common: common,
		SiteID: stringField(doc, "id"),
		Raw:    doc,
	}
}

// splitPresentation hoists presentation-level flags (microConclusion) into
// a separate attributes bag and returns the remaining presentation tree.
func splitPresentation(v any) (map[string]any, map[string]any) {
	attrs := make(map[string]any)
	tree, ok := v.(map[string]any)
	if !ok {
		return nil, attrs
	}
	if flag, ok := tree["microConclusion"]; ok {
		attrs["microConclusion"] = flag
		rest := make(map[string]any, len(tree)-1)
		for k, val := range tree {
			if k != "microConclusion" {
				rest[k] = val
			}
		}
		return rest, attrs
	}
	return tree, attrs
}

// endpointList decodes a JSON endpoint array into typed endpoints.
// Non-array or malformed entries contribute nothing.
func endpointList(v any) []*Endpoint {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var endpoints []*Endpoint
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ep := &Endpoint{
			Name:      stringField(entry, "name"),
			URL:       stringField(entry, "url"),
			OnSend:    stringField(entry, "onSend"),
			OnReceive: stringField(entry, "onReceive"),
		}
		if b, ok := entry["bestEffort"].(bool); ok {
			ep.BestEffort = b
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
