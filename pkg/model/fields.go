package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/snedea/arcane-auditor/pkg/script"
	"github.com/snedea/arcane-auditor/pkg/source"
)

// ScriptField is a located, not-yet-parsed script occurrence inside a model.
type ScriptField struct {
	// FieldPath is the JSON-path style location of the value, e.g.
	// "presentation.body.children[2].onChange".
	FieldPath string
	// FieldName is the final path segment.
	FieldName string
	// RawText is the value exactly as decoded, delimiters included.
	RawText string
	// LineOffset is the 1-based original line at which RawText begins,
	// or 1 when the line tables cannot place it.
	LineOffset int
}

// ScriptFields extracts every embedded-script occurrence from a model in a
// fixed, documented order: the top-level onLoad/onSubmit/script fields,
// then inbound endpoints, then outbound endpoints, then a depth-first walk
// of the presentation tree. Line offsets are claimed from the model's
// hash-to-lines table in FIFO order, so the n-th visit of a repeated
// identical value receives its n-th physical occurrence.
func ScriptFields(m Model) []ScriptField {
	switch v := m.(type) {
	case *Page:
		ex := newExtractor(v.Table)
		ex.add("onLoad", v.OnLoad)
		ex.add("onSubmit", v.OnSubmit)
		ex.add("script", v.Script)
		ex.addEndpoints("inboundEndpoints", v.InboundEndpoints)
		ex.addEndpoints("outboundEndpoints", v.OutboundEndpoints)
		ex.walk("presentation", v.Presentation)
		return ex.fields
	case *Fragment:
		ex := newExtractor(v.Table)
		ex.add("onLoad", v.OnLoad)
		ex.add("script", v.Script)
		ex.addEndpoints("inboundEndpoints", v.InboundEndpoints)
		ex.addEndpoints("outboundEndpoints", v.OutboundEndpoints)
		ex.walk("presentation", v.Presentation)
		return ex.fields
	case *ScriptFile:
		if strings.TrimSpace(v.SourceContent) == "" {
			return nil
		}
		return []ScriptField{{
			FieldPath:  "source",
			FieldName:  "source",
			RawText:    v.SourceContent,
			LineOffset: 1,
		}}
	default:
		// App and site definitions carry no embedded script fields.
		return nil
	}
}

type extractor struct {
	cursor *source.RangeCursor
	fields []ScriptField
}

func newExtractor(table source.LineTable) *extractor {
	return &extractor{cursor: source.NewRangeCursor(table)}
}

// add records one script occurrence if the value is non-empty.
func (ex *extractor) add(path, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	offset := 1
	if r := ex.cursor.Claim(raw); len(r) > 0 {
		offset = r[0]
	}
	name := path
	if i := strings.LastIndexAny(path, ".]"); i >= 0 && i+1 < len(path) {
		name = path[i+1:]
	}
	ex.fields = append(ex.fields, ScriptField{
		FieldPath:  path,
		FieldName:  name,
		RawText:    raw,
		LineOffset: offset,
	})
}

func (ex *extractor) addEndpoints(prefix string, endpoints []*Endpoint) {
	for i, ep := range endpoints {
		base := fmt.Sprintf("%s[%d]", prefix, i)
		ex.add(base+".onSend", ep.OnSend)
		ex.add(base+".onReceive", ep.OnReceive)
	}
}

// walk visits the presentation tree depth-first, collecting every string
// value that embeds the script delimiter pair. Map keys are visited in
// sorted order so extraction is deterministic.
func (ex *extractor) walk(path string, v any) {
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ex.walk(path+"."+k, node[k])
		}
	case []any:
		for i, elem := range node {
			ex.walk(fmt.Sprintf("%s[%d]", path, i), elem)
		}
	case string:
		if script.HasWrapper(node) {
			ex.add(path, node)
		}
	}
}
