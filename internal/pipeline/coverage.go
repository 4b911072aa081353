package pipeline

import "github.com/snedea/arcane-auditor/pkg/model"

// Coverage records which definition-file kinds were present in a batch.
// Consumers use it to warn when cross-file analysis is partial, e.g. when
// no app or site definition was supplied.
type Coverage struct {
	Pages     bool
	Fragments bool
	App       bool
	Site      bool
	Scripts   bool
}

// coverageFromPaths inspects the input paths' extensions.
func coverageFromPaths(paths []string) Coverage {
	var c Coverage
	for _, p := range paths {
		switch model.KindForPath(p) {
		case model.KindPage:
			c.Pages = true
		case model.KindFragment:
			c.Fragments = true
		case model.KindApp:
			c.App = true
		case model.KindSite:
			c.Site = true
		case model.KindScript:
			c.Scripts = true
		}
	}
	return c
}

// Missing lists the kinds absent from the batch, in a fixed order.
func (c Coverage) Missing() []string {
	var missing []string
	if !c.Pages {
		missing = append(missing, model.KindPage.String())
	}
	if !c.Fragments {
		missing = append(missing, model.KindFragment.String())
	}
	if !c.App {
		missing = append(missing, model.KindApp.String())
	}
	if !c.Site {
		missing = append(missing, model.KindSite.String())
	}
	if !c.Scripts {
		missing = append(missing, model.KindScript.String())
	}
	return missing
}

// Complete reports whether every kind was present.
func (c Coverage) Complete() bool {
	return c.Pages && c.Fragments && c.App && c.Site && c.Scripts
}
