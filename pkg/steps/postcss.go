package steps

import (
	"slices"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
)

const (
	PluginFlexbugsFixes = "postcss-flexbugs-fixes"
	PluginPresetEnv     = "postcss-preset-env"

	// PresetEnvStage is the CSS feature stage handed to the preset.
	PresetEnvStage = 3
)

// NewPostCSSStep creates the postcss-loader step.
//
// The plugin list is flexbugs-fixes, then preset-env, then the user's extra
// plugins in order. postcssLoader overrides are merged over the whole result.
func NewPostCSSStep(ctx api.BuildContext, r Resolver) Step {
	plugins := []any{
		map[string]any{"name": PluginFlexbugsFixes},
		map[string]any{
			"name": PluginPresetEnv,
			"options": map[string]any{
				"autoprefixer": autoprefixer(ctx),
				"stage":        PresetEnvStage,
			},
		},
	}
	plugins = append(plugins, options.CloneSlice(ctx.Config.ExtraPostCSSPlugins)...)

	base := map[string]any{
		"ident":   "postcss",
		"plugins": plugins,
	}

	return Step{
		Name:    api.StepPostCSS,
		Loader:  r.Resolve(api.StepPostCSS),
		Options: options.Merge(base, ctx.Config.PostCSSLoader),
	}
}

// autoprefixer returns false for server builds and the user's autoprefixer
// options pinned to the build's browser targets otherwise.
func autoprefixer(ctx api.BuildContext) any {
	if ctx.Target == api.TargetSSR {
		return false
	}
	opts := options.Clone(ctx.Config.Autoprefixer)
	if opts == nil {
		opts = make(map[string]any)
	}
	if ctx.BrowserTargets != nil {
		opts["overrideBrowserslist"] = slices.Clone(ctx.BrowserTargets)
	}
	return opts
}
