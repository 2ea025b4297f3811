package steps

import (
	"maps"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
)

// LocalIdentName is the class name pattern of scoped style modules.
const LocalIdentName = "[local]___[hash:base64:5]"

// NewTypingsStep creates the step that emits type declarations for style
// module class names. The user options are used as given.
func NewTypingsStep(opts map[string]any, r Resolver) Step {
	return Step{
		Name:    api.StepCSSModulesTypescript,
		Loader:  r.Resolve(api.StepCSSModulesTypescript),
		Options: options.Clone(opts),
	}
}

// NewCSSStep creates the css-loader step.
//
// Server builds only need the class name map, so onlyLocals stays set there
// whatever the user passes. Global rules never carry a modules section, and
// scoped rules always keep LocalIdentName.
func NewCSSStep(ctx api.BuildContext, scoped bool, r Resolver) Step {
	var ssr, modules map[string]any
	if ctx.Target == api.TargetSSR {
		ssr = map[string]any{"onlyLocals": true}
	}
	if scoped {
		modules = map[string]any{
			"modules": map[string]any{"localIdentName": LocalIdentName},
		}
	}

	return Step{
		Name:    api.StepCSS,
		Loader:  r.Resolve(api.StepCSS),
		Options: options.MergeAll(
			map[string]any{"importLoaders": 1},
			ssr,
			modules,
			userCSSOptions(ctx.Config.CSSLoader, scoped),
			ssr,
			modules,
		),
	}
}

// userCSSOptions fits the user's modules setting to the variant. Global rules
// drop it. Scoped rules keep a map as is, turn a mode string such as "global"
// into {mode: ...} and drop a boolean, so the modules section stays a map.
func userCSSOptions(user map[string]any, scoped bool) map[string]any {
	m, ok := user["modules"]
	if !ok {
		return user
	}
	user = maps.Clone(user)

	switch v := m.(type) {
	case map[string]any:
		if !scoped {
			delete(user, "modules")
		}
	case string:
		if scoped {
			user["modules"] = map[string]any{"mode": v}
		} else {
			delete(user, "modules")
		}
	default:
		delete(user, "modules")
	}
	return user
}
