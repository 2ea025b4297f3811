package pipeline

import (
	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
	"github.com/systemstart/stylepipe/pkg/steps"
)

const (
	DefaultExtractPlugin  = "mini-css-extract-plugin"
	DefaultOptimizePlugin = "optimize-css-assets-webpack-plugin"

	// SafeParser tolerates near-valid CSS during minification.
	SafeParser = "postcss-safe-parser"

	contentHash = ".[contenthash:8]"
)

// Plugin is a build-wide plugin registration.
type Plugin struct {
	Name    string         `yaml:"name" json:"name"`
	Loader  string         `yaml:"loader" json:"loader"`
	Options map[string]any `yaml:"options" json:"options"`
}

// ExtractPlugin returns the CSS extraction plugin. Only browser builds without
// runtime style injection get one.
func ExtractPlugin(ctx api.BuildContext, r steps.Resolver) (Plugin, bool) {
	if ctx.Config.StyleLoader != nil || ctx.Target != api.TargetCSR {
		return Plugin{}, false
	}

	hash := ""
	if !ctx.IsDevelopment && ctx.Config.Hash {
		hash = contentHash
	}

	loader := ctx.ExtractionPluginOverride
	if loader == "" {
		loader = r.Resolve(DefaultExtractPlugin)
	}

	return Plugin{
		Name:   api.PluginExtractCSS,
		Loader: loader,
		Options: map[string]any{
			"filename":      "[name]" + hash + ".css",
			"chunkFilename": "[name]" + hash + ".chunk.css",
			// Module order across chunks is not enforced.
			"ignoreOrder": true,
		},
	}, true
}

// OptimizePlugin returns the CSS minification plugin for production builds of
// any target. Compression is gated independently of filename hashing.
func OptimizePlugin(ctx api.BuildContext, r steps.Resolver) (Plugin, bool) {
	if ctx.IsDevelopment || ctx.DisableCompression {
		return Plugin{}, false
	}

	preset := []any{"default"}
	if ctx.Config.CSSNano != nil {
		preset = append(preset, options.Clone(ctx.Config.CSSNano))
	}

	return Plugin{
		Name:   api.PluginOptimizeCSS,
		Loader: r.Resolve(DefaultOptimizePlugin),
		Options: map[string]any{
			"cssProcessorOptions": map[string]any{
				"parser": r.Resolve(SafeParser),
			},
			"cssProcessorPluginOptions": map[string]any{
				"preset": preset,
			},
		},
	}, true
}
