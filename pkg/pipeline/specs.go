package pipeline

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
)

var (
	cssTest  = regexp.MustCompile(`\.(css)(\?.*)?$`)
	lessTest = regexp.MustCompile(`\.(less)(\?.*)?$`)
)

// DefaultSpecs returns the built-in languages: plain CSS and Less. The Less
// transform gets the theme as modifyVars.
func DefaultSpecs(cfg api.UserConfig) []api.StyleRuleSpec {
	lessOptions := map[string]any{"javascriptEnabled": true}
	if cfg.Theme != nil {
		lessOptions["modifyVars"] = options.Clone(cfg.Theme)
	}

	return []api.StyleRuleSpec{
		{Lang: "css", Test: cssTest},
		{
			Lang:  "less",
			Test:  lessTest,
			Extra: &api.ExtraStep{Loader: api.LoaderLess, Options: lessOptions},
		},
	}
}

// Specs returns the languages of a build file: the defaults, with custom
// languages replacing a default of the same name or appended after them.
func Specs(f *api.BuildFile) ([]api.StyleRuleSpec, error) {
	specs := DefaultSpecs(f.Config)

	for _, l := range f.Languages {
		spec, err := l.Spec()
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", l.Lang, err)
		}
		if i := slices.IndexFunc(specs, func(s api.StyleRuleSpec) bool { return s.Lang == l.Lang }); i >= 0 {
			specs[i] = spec
			continue
		}
		specs = append(specs, spec)
	}

	return specs, nil
}
