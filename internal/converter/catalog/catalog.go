// Package catalog assembles the full converter set this build ships. It
// lives apart from package converter so the parser packages can depend on
// the converter contract without forming an import cycle.
package catalog

import (
	"github.com/triagekit/triage-cli/internal/converter"
	"github.com/triagekit/triage-cli/internal/converter/clangtidy"
	"github.com/triagekit/triage-cli/internal/converter/cppcheck"
	"github.com/triagekit/triage-cli/internal/converter/eslint"
	"github.com/triagekit/triage-cli/internal/converter/golint"
	"github.com/triagekit/triage-cli/internal/converter/infer"
	"github.com/triagekit/triage-cli/internal/converter/pyflakes"
	"github.com/triagekit/triage-cli/internal/converter/pylint"
	"github.com/triagekit/triage-cli/internal/converter/sanitizer"
	"github.com/triagekit/triage-cli/internal/converter/spotbugs"
	"github.com/triagekit/triage-cli/internal/converter/tslint"
)

// Default builds the registry of every supported tool. Callers construct it
// once at startup and pass it down by reference.
func Default() *converter.Registry {
	return converter.NewRegistry(
		clangtidy.New(),
		cppcheck.New(),
		eslint.New(),
		golint.New(),
		infer.New(),
		pyflakes.New(),
		pylint.New(),
		sanitizer.NewAddress(),
		sanitizer.NewMemory(),
		sanitizer.NewThread(),
		sanitizer.NewUndefined(),
		spotbugs.New(),
		tslint.New(),
	)
}
