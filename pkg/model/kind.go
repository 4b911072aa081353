package model

import (
	"path/filepath"
	"strings"
)

// Kind identifies the five recognized definition-file kinds.
type Kind int

// Definition-file kinds, inferred from file extension.
const (
	KindUnknown  Kind = iota
	KindPage          // .pmd
	KindFragment      // .pod
	KindApp           // .amd
	KindSite          // .smd
	KindScript        // .script
)

// kindNames maps kinds to their display names.
var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindPage:     "page",
	KindFragment: "fragment",
	KindApp:      "app",
	KindSite:     "site",
	KindScript:   "script",
}

// String returns the kind's display name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// extensions maps recognized file extensions to kinds. Exactly these five
// are recognized; anything else is KindUnknown and the pipeline ignores it.
var extensions = map[string]Kind{
	".pmd":    KindPage,
	".pod":    KindFragment,
	".amd":    KindApp,
	".smd":    KindSite,
	".script": KindScript,
}

// KindForPath infers the definition kind from the path's extension.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := extensions[ext]; ok {
		return k
	}
	return KindUnknown
}

// Stem returns the file name without directory or extension, used as the
// identity fallback when a definition declares no id.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
