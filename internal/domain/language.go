package domain

import (
	"fmt"

	"github.com/mordant-dev/mordant/internal/adapter"
	m "github.com/mordant-dev/mordant/internal/model"
)

// Language identifies a supported project language.
type Language string

// LanguageGo is the only language shipped today.
const LanguageGo Language = "go"

// ProcessDeps carries everything a language process needs to operate on a
// project.
type ProcessDeps struct {
	Workspace adapter.Workspace
	Root      m.Path
	Exclude   []string
	Types     []m.MutationType
}

// ProcessFactory builds a language-specific Process.
type ProcessFactory func(deps ProcessDeps) Process

// processFactories is a closed table resolved at compile time; adding a
// language means adding an entry here.
var processFactories = map[Language]ProcessFactory{
	LanguageGo: NewGoProcess,
}

// ProcessFor resolves the mutation process for a language. A missing entry
// is a configuration error and aborts the session.
func ProcessFor(lang Language, deps ProcessDeps) (Process, error) {
	factory, ok := processFactories[lang]
	if !ok {
		return nil, fmt.Errorf("no mutation process registered for language %q", lang)
	}

	return factory(deps), nil
}
