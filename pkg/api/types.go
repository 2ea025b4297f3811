package api

import "regexp"

// Target is the platform a build produces code for.
type Target string

const (
	// TargetCSR is a browser build that emits physical CSS files.
	TargetCSR Target = "csr"
	// TargetSSR is a server build that only needs class name maps.
	TargetSSR Target = "ssr"
)

// Valid reports whether t names a known target.
func (t Target) Valid() bool {
	return t == TargetCSR || t == TargetSSR
}

const (
	DefaultBuildFilename = "stylepipe.yaml"

	StepStyle                = "style-loader"
	StepExtractCSS           = "extract-css-loader"
	StepCSSModulesTypescript = "css-modules-typescript-loader"
	StepCSS                  = "css-loader"
	StepPostCSS              = "postcss-loader"

	PluginExtractCSS  = "extract-css"
	PluginOptimizeCSS = "optimize-css"

	LoaderLess = "less-loader"
)

// UserConfig holds per-step option overrides supplied by the user.
//
// A nil map means the override is not configured. An empty, non-nil map is
// configured with no options; for StyleLoader that alone switches the build to
// runtime style injection.
type UserConfig struct {
	StyleLoader                map[string]any            `yaml:"styleLoader"`
	CSSModulesTypescriptLoader map[string]any            `yaml:"cssModulesTypescriptLoader"`
	CSSLoader                  map[string]any            `yaml:"cssLoader"`
	PostCSSLoader              map[string]any            `yaml:"postcssLoader"`
	Autoprefixer               map[string]any            `yaml:"autoprefixer"`
	ExtraPostCSSPlugins        []any                     `yaml:"extraPostCSSPlugins"`
	LessLoader                 map[string]any            `yaml:"lessLoader"`
	Theme                      map[string]any            `yaml:"theme"`
	CSSNano                    map[string]any            `yaml:"cssnano"`
	Hash                       bool                      `yaml:"hash"`
	Loaders                    map[string]map[string]any `yaml:"loaders"`
}

// LoaderOverride returns the user options for a language-specific loader.
func (c UserConfig) LoaderOverride(loader string) map[string]any {
	if loader == LoaderLess && c.LessLoader != nil {
		return c.LessLoader
	}
	return c.Loaders[loader]
}

// BuildContext is the immutable input of one pipeline composition.
type BuildContext struct {
	Target             Target
	IsDevelopment      bool
	DisableCompression bool
	BrowserTargets     []string
	Config             UserConfig

	// Substitute implementations; empty means the default one.
	ExtractionPluginOverride string
	ExtractionLoaderOverride string
}

// ExtraStep is a language-specific transform appended after postcss.
type ExtraStep struct {
	Loader  string
	Options map[string]any
}

// StyleRuleSpec describes one stylesheet language.
type StyleRuleSpec struct {
	Lang  string
	Test  *regexp.Regexp
	Extra *ExtraStep
}

// BuildFile is the stylepipe.yaml configuration format.
type BuildFile struct {
	Targets            []Target          `yaml:"targets"`
	IsDevelopment      bool              `yaml:"isDevelopment"`
	DisableCompression bool              `yaml:"disableCompression"`
	BrowserTargets     []string          `yaml:"browserTargets"`
	ExtractionPlugin   string            `yaml:"extractionPlugin"`
	ExtractionLoader   string            `yaml:"extractionLoader"`
	Config             UserConfig        `yaml:"config"`
	Languages          []LanguageConfig  `yaml:"languages"`
	Loaders            map[string]string `yaml:"loaders"`

	// Set by the loader, not from YAML.
	FilePath string `yaml:"-"`
}

// LanguageConfig declares an additional stylesheet language.
type LanguageConfig struct {
	Lang    string         `yaml:"lang"`
	Test    string         `yaml:"test"`
	Loader  string         `yaml:"loader"`
	Options map[string]any `yaml:"options"`
}

// Context returns the build context of the file for target t.
func (f *BuildFile) Context(t Target) BuildContext {
	return BuildContext{
		Target:                   t,
		IsDevelopment:            f.IsDevelopment,
		DisableCompression:       f.DisableCompression,
		BrowserTargets:           f.BrowserTargets,
		Config:                   f.Config,
		ExtractionPluginOverride: f.ExtractionPlugin,
		ExtractionLoaderOverride: f.ExtractionLoader,
	}
}

// Spec compiles the language declaration into a rule spec.
func (l LanguageConfig) Spec() (StyleRuleSpec, error) {
	re, err := regexp.Compile(l.Test)
	if err != nil {
		return StyleRuleSpec{}, err
	}
	spec := StyleRuleSpec{Lang: l.Lang, Test: re}
	if l.Loader != "" {
		spec.Extra = &ExtraStep{Loader: l.Loader, Options: l.Options}
	}
	return spec, nil
}
