package pipeline

import (
	"log/slog"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/steps"
)

// BuildPipeline is the style configuration of one build.
type BuildPipeline struct {
	Target  api.Target
	Rules   []Rule
	Plugins []Plugin
}

// Assemble composes a rule per spec, in the given order, and registers the
// extraction and minification plugins when they apply.
func Assemble(ctx api.BuildContext, specs []api.StyleRuleSpec, r steps.Resolver) *BuildPipeline {
	if r == nil {
		r = steps.NameResolver{}
	}

	p := &BuildPipeline{
		Target: ctx.Target,
		Rules:  make([]Rule, 0, len(specs)),
	}

	for _, spec := range specs {
		rule := ComposeRule(ctx, spec, r)
		slog.Debug("composed style rule",
			"target", ctx.Target,
			"lang", spec.Lang,
			"scoped", rule.Scoped.Steps.Names(),
			"global", rule.Global.Steps.Names())
		p.Rules = append(p.Rules, rule)
	}

	if plugin, ok := ExtractPlugin(ctx, r); ok {
		slog.Debug("registering plugin", "target", ctx.Target, "plugin", plugin.Name)
		p.Plugins = append(p.Plugins, plugin)
	}
	if plugin, ok := OptimizePlugin(ctx, r); ok {
		slog.Debug("registering plugin", "target", ctx.Target, "plugin", plugin.Name)
		p.Plugins = append(p.Plugins, plugin)
	}

	return p
}

// Rule returns the rule for lang.
func (p *BuildPipeline) Rule(lang string) (Rule, bool) {
	for _, r := range p.Rules {
		if r.Lang == lang {
			return r, true
		}
	}
	return Rule{}, false
}

// Plugin returns the registered plugin called name.
func (p *BuildPipeline) Plugin(name string) (Plugin, bool) {
	for _, pl := range p.Plugins {
		if pl.Name == name {
			return pl, true
		}
	}
	return Plugin{}, false
}

// Match returns the first rule, and its variant, that handles request.
func (p *BuildPipeline) Match(request string) (Rule, Variant, bool) {
	for _, r := range p.Rules {
		if v, ok := r.Match(request); ok {
			return r, v, true
		}
	}
	return Rule{}, Variant{}, false
}
