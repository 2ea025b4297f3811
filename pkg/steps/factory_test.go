package steps

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/systemstart/stylepipe/pkg/api"
)

var lessStep = &api.ExtraStep{
	Loader:  api.LoaderLess,
	Options: map[string]any{"javascriptEnabled": true},
}

func TestNewChain_Order(t *testing.T) {
	tests := []struct {
		name   string
		ctx    api.BuildContext
		extra  *api.ExtraStep
		scoped bool
		want   []string
	}{
		{
			name: "csr global",
			ctx:  api.BuildContext{Target: api.TargetCSR},
			want: []string{api.StepExtractCSS, api.StepCSS, api.StepPostCSS},
		},
		{
			name: "ssr global",
			ctx:  api.BuildContext{Target: api.TargetSSR},
			want: []string{api.StepCSS, api.StepPostCSS},
		},
		{
			name: "style loader wins over extraction",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{StyleLoader: map[string]any{}},
			},
			want: []string{api.StepStyle, api.StepCSS, api.StepPostCSS},
		},
		{
			name: "style loader on ssr",
			ctx: api.BuildContext{
				Target: api.TargetSSR,
				Config: api.UserConfig{StyleLoader: map[string]any{}},
			},
			want: []string{api.StepStyle, api.StepCSS, api.StepPostCSS},
		},
		{
			name: "typings in scoped development chain",
			ctx: api.BuildContext{
				Target:        api.TargetCSR,
				IsDevelopment: true,
				Config:        api.UserConfig{CSSModulesTypescriptLoader: map[string]any{"mode": "emit"}},
			},
			scoped: true,
			want:   []string{api.StepExtractCSS, api.StepCSSModulesTypescript, api.StepCSS, api.StepPostCSS},
		},
		{
			name: "no typings in global chain",
			ctx: api.BuildContext{
				Target:        api.TargetCSR,
				IsDevelopment: true,
				Config:        api.UserConfig{CSSModulesTypescriptLoader: map[string]any{"mode": "emit"}},
			},
			want: []string{api.StepExtractCSS, api.StepCSS, api.StepPostCSS},
		},
		{
			name: "no typings outside development",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSModulesTypescriptLoader: map[string]any{"mode": "emit"}},
			},
			scoped: true,
			want:   []string{api.StepExtractCSS, api.StepCSS, api.StepPostCSS},
		},
		{
			name:   "language step last",
			ctx:    api.BuildContext{Target: api.TargetCSR},
			extra:  lessStep,
			scoped: true,
			want:   []string{api.StepExtractCSS, api.StepCSS, api.StepPostCSS, api.LoaderLess},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewChain(tt.ctx, tt.extra, tt.scoped, NameResolver{})
			if !slices.Equal(l.Names(), tt.want) {
				t.Errorf("NewChain() = %v, want %v", l.Names(), tt.want)
			}
		})
	}
}

func TestNewChain_DeliveryStepsNeverTogether(t *testing.T) {
	for _, target := range []api.Target{api.TargetCSR, api.TargetSSR} {
		for _, styleLoader := range []map[string]any{nil, {}} {
			for _, scoped := range []bool{true, false} {
				ctx := api.BuildContext{Target: target, Config: api.UserConfig{StyleLoader: styleLoader}}
				l := NewChain(ctx, lessStep, scoped, NameResolver{})
				if l.Has(api.StepStyle) && l.Has(api.StepExtractCSS) {
					t.Errorf("target=%s styleLoader=%v scoped=%v: both delivery steps present", target, styleLoader, scoped)
				}
			}
		}
	}
}

func TestNewStyleStep(t *testing.T) {
	s := NewStyleStep(map[string]any{"injectType": "lazyStyleTag", "base": 1000}, NameResolver{})
	want := map[string]any{"injectType": "lazyStyleTag", "base": 1000}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	s = NewStyleStep(map[string]any{}, NameResolver{})
	if diff := cmp.Diff(map[string]any{"base": 0}, s.Options); diff != "" {
		t.Errorf("default options mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExtractStep(t *testing.T) {
	s := NewExtractStep("", MapResolver{DefaultExtractLoader: "/abs/loader.js"})
	if s.Loader != "/abs/loader.js" {
		t.Errorf("loader = %q, expected resolved default", s.Loader)
	}
	want := map[string]any{"publicPath": "./", "esModule": false}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	s = NewExtractStep("/custom/loader.js", MapResolver{DefaultExtractLoader: "/abs/loader.js"})
	if s.Loader != "/custom/loader.js" {
		t.Errorf("loader = %q, expected override", s.Loader)
	}
}

func TestNewTypingsStep_Verbatim(t *testing.T) {
	opts := map[string]any{"mode": "verify", "nested": map[string]any{"a": 1}}
	s := NewTypingsStep(opts, NameResolver{})
	if diff := cmp.Diff(opts, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	s.Options["nested"].(map[string]any)["a"] = 2
	if opts["nested"].(map[string]any)["a"] != 1 {
		t.Error("typings options share state with user config")
	}
}

func TestNewCSSStep(t *testing.T) {
	tests := []struct {
		name   string
		ctx    api.BuildContext
		scoped bool
		want   map[string]any
	}{
		{
			name: "csr global",
			ctx:  api.BuildContext{Target: api.TargetCSR},
			want: map[string]any{"importLoaders": 1},
		},
		{
			name:   "csr scoped",
			ctx:    api.BuildContext{Target: api.TargetCSR},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"modules":       map[string]any{"localIdentName": LocalIdentName},
			},
		},
		{
			name: "ssr global",
			ctx:  api.BuildContext{Target: api.TargetSSR},
			want: map[string]any{"importLoaders": 1, "onlyLocals": true},
		},
		{
			name:   "ssr scoped",
			ctx:    api.BuildContext{Target: api.TargetSSR},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"onlyLocals":    true,
				"modules":       map[string]any{"localIdentName": LocalIdentName},
			},
		},
		{
			name: "user options win and merge into modules",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{
					"importLoaders": 2,
					"modules":       map[string]any{"exportLocalsConvention": "camelCase"},
				}},
			},
			scoped: true,
			want: map[string]any{
				"importLoaders": 2,
				"modules": map[string]any{
					"localIdentName":         LocalIdentName,
					"exportLocalsConvention": "camelCase",
				},
			},
		},
		{
			name: "user modules dropped from global rule",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{
					"url":     false,
					"modules": map[string]any{"localIdentName": "[hash]"},
				}},
			},
			want: map[string]any{"importLoaders": 1, "url": false},
		},
		{
			name: "boolean modules cannot disable scoped naming",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{"modules": false}},
			},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"modules":       map[string]any{"localIdentName": LocalIdentName},
			},
		},
		{
			name: "boolean modules enabled on scoped rule",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{"modules": true}},
			},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"modules":       map[string]any{"localIdentName": LocalIdentName},
			},
		},
		{
			name: "modules mode string becomes mode key",
			ctx: api.BuildContext{
				Target: api.TargetSSR,
				Config: api.UserConfig{CSSLoader: map[string]any{"modules": "global"}},
			},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"onlyLocals":    true,
				"modules":       map[string]any{"mode": "global", "localIdentName": LocalIdentName},
			},
		},
		{
			name: "user localIdentName does not replace scoped naming",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{
					"modules": map[string]any{"localIdentName": "[hash]", "auto": true},
				}},
			},
			scoped: true,
			want: map[string]any{
				"importLoaders": 1,
				"modules":       map[string]any{"localIdentName": LocalIdentName, "auto": true},
			},
		},
		{
			name: "scalar modules dropped from global rule",
			ctx: api.BuildContext{
				Target: api.TargetCSR,
				Config: api.UserConfig{CSSLoader: map[string]any{"modules": "global"}},
			},
			want: map[string]any{"importLoaders": 1},
		},
		{
			name: "onlyLocals kept on ssr",
			ctx: api.BuildContext{
				Target: api.TargetSSR,
				Config: api.UserConfig{CSSLoader: map[string]any{"onlyLocals": false}},
			},
			want: map[string]any{"importLoaders": 1, "onlyLocals": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCSSStep(tt.ctx, tt.scoped, NameResolver{})
			if diff := cmp.Diff(tt.want, s.Options); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewCSSStep_DoesNotMutateUserConfig(t *testing.T) {
	user := map[string]any{"modules": map[string]any{"auto": true}}
	ctx := api.BuildContext{Target: api.TargetCSR, Config: api.UserConfig{CSSLoader: user}}

	NewCSSStep(ctx, false, NameResolver{})
	scoped := NewCSSStep(ctx, true, NameResolver{})
	scoped.Options["modules"].(map[string]any)["auto"] = false

	if diff := cmp.Diff(map[string]any{"modules": map[string]any{"auto": true}}, user); diff != "" {
		t.Errorf("user config mutated (-want +got):\n%s", diff)
	}
}

func TestNewPostCSSStep(t *testing.T) {
	ctx := api.BuildContext{
		Target:         api.TargetCSR,
		BrowserTargets: []string{"chrome 80"},
		Config: api.UserConfig{
			Autoprefixer:        map[string]any{"grid": "autoplace", "overrideBrowserslist": []string{"ignored"}},
			ExtraPostCSSPlugins: []any{map[string]any{"name": "postcss-nested"}, "postcss-pxtorem"},
		},
	}

	s := NewPostCSSStep(ctx, NameResolver{})
	want := map[string]any{
		"ident": "postcss",
		"plugins": []any{
			map[string]any{"name": PluginFlexbugsFixes},
			map[string]any{
				"name": PluginPresetEnv,
				"options": map[string]any{
					"autoprefixer": map[string]any{
						"grid":                 "autoplace",
						"overrideBrowserslist": []string{"chrome 80"},
					},
					"stage": PresetEnvStage,
				},
			},
			map[string]any{"name": "postcss-nested"},
			"postcss-pxtorem",
		},
	}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPostCSSStep_SSRDisablesAutoprefixer(t *testing.T) {
	ctx := api.BuildContext{
		Target:         api.TargetSSR,
		BrowserTargets: []string{"chrome 80"},
		Config:         api.UserConfig{Autoprefixer: map[string]any{"grid": true}},
	}

	s := NewPostCSSStep(ctx, NameResolver{})
	plugins := s.Options["plugins"].([]any)
	preset := plugins[1].(map[string]any)["options"].(map[string]any)
	if preset["autoprefixer"] != false {
		t.Errorf("autoprefixer = %v, want false", preset["autoprefixer"])
	}
	if preset["stage"] != PresetEnvStage {
		t.Errorf("stage = %v", preset["stage"])
	}
}

func TestNewPostCSSStep_UserOverride(t *testing.T) {
	ctx := api.BuildContext{
		Target: api.TargetCSR,
		Config: api.UserConfig{
			PostCSSLoader: map[string]any{"sourceMap": true, "ident": "custom"},
		},
	}

	s := NewPostCSSStep(ctx, NameResolver{})
	if s.Options["sourceMap"] != true || s.Options["ident"] != "custom" {
		t.Errorf("user override not applied: %v", s.Options)
	}
	if len(s.Options["plugins"].([]any)) != 2 {
		t.Errorf("default plugins lost: %v", s.Options["plugins"])
	}
}

func TestNewExtraStep(t *testing.T) {
	extra := api.ExtraStep{
		Loader:  api.LoaderLess,
		Options: map[string]any{"javascriptEnabled": true, "modifyVars": map[string]any{"@a": "1"}},
	}
	s := NewExtraStep(extra, map[string]any{"modifyVars": map[string]any{"@b": "2"}}, MapResolver{api.LoaderLess: "/abs/less-loader"})

	if s.Name != api.LoaderLess || s.Loader != "/abs/less-loader" {
		t.Errorf("unexpected step identity: %+v", s)
	}
	want := map[string]any{
		"javascriptEnabled": true,
		"modifyVars":        map[string]any{"@a": "1", "@b": "2"},
	}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}
