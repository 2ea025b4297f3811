package steps

import (
	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
)

// DefaultExtractLoader is the loader that routes processed CSS into the
// extraction plugin.
const DefaultExtractLoader = "mini-css-extract-plugin/loader"

// NewStyleStep creates the runtime style injection step.
func NewStyleStep(override map[string]any, r Resolver) Step {
	return Step{
		Name:    api.StepStyle,
		Loader:  r.Resolve(api.StepStyle),
		Options: options.Merge(map[string]any{"base": 0}, override),
	}
}

// NewExtractStep creates the extraction step. An empty loaderOverride selects
// the default extraction loader.
func NewExtractStep(loaderOverride string, r Resolver) Step {
	loader := loaderOverride
	if loader == "" {
		loader = r.Resolve(DefaultExtractLoader)
	}
	return Step{
		Name:   api.StepExtractCSS,
		Loader: loader,
		Options: map[string]any{
			"publicPath": "./",
			"esModule":   false,
		},
	}
}

// newDeliveryStep picks how processed CSS reaches the artifact. Server builds
// without a style loader get neither step.
func newDeliveryStep(ctx api.BuildContext, r Resolver) (Step, bool) {
	switch {
	case ctx.Config.StyleLoader != nil:
		return NewStyleStep(ctx.Config.StyleLoader, r), true
	case ctx.Target == api.TargetCSR:
		return NewExtractStep(ctx.ExtractionLoaderOverride, r), true
	default:
		return Step{}, false
	}
}
