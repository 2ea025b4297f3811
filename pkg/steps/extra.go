package steps

import (
	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
)

// NewExtraStep creates a language-specific transform step such as less-loader.
func NewExtraStep(extra api.ExtraStep, override map[string]any, r Resolver) Step {
	return Step{
		Name:    extra.Loader,
		Loader:  r.Resolve(extra.Loader),
		Options: options.Merge(extra.Options, override),
	}
}
