package api

import (
	"fmt"
	"regexp"
	"strings"
)

var builtinSteps = map[string]bool{
	StepStyle:                true,
	StepExtractCSS:           true,
	StepCSSModulesTypescript: true,
	StepCSS:                  true,
	StepPostCSS:              true,
}

// Validate checks the build file for errors.
func (f *BuildFile) Validate() error {
	if len(f.Targets) == 0 {
		return fmt.Errorf("build file has no targets")
	}

	seen := make(map[Target]bool)
	for i, t := range f.Targets {
		if !t.Valid() {
			return fmt.Errorf("target %d: unknown target %q (valid: %s, %s)", i, t, TargetCSR, TargetSSR)
		}
		if seen[t] {
			return fmt.Errorf("target %d: duplicate target %q", i, t)
		}
		seen[t] = true
	}

	langs := make(map[string]int)
	for i, l := range f.Languages {
		if l.Lang == "" {
			return fmt.Errorf("language %d: lang is required", i)
		}
		if prev, exists := langs[l.Lang]; exists {
			return fmt.Errorf("language %d: duplicate lang %q (first defined at language %d)", i, l.Lang, prev)
		}
		langs[l.Lang] = i

		if err := validateLanguage(l); err != nil {
			return fmt.Errorf("language %q: %w", l.Lang, err)
		}
	}

	for name, ref := range f.Loaders {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("loader alias %q: reference is empty", name)
		}
	}

	return nil
}

func validateLanguage(l LanguageConfig) error {
	if l.Test == "" {
		return fmt.Errorf("test is required")
	}
	if _, err := regexp.Compile(l.Test); err != nil {
		return fmt.Errorf("test %q is not a valid pattern: %w", l.Test, err)
	}
	if builtinSteps[l.Loader] {
		return fmt.Errorf("loader %q collides with a built-in step", l.Loader)
	}
	if l.Loader == "" && len(l.Options) > 0 {
		return fmt.Errorf("options given without a loader")
	}
	return nil
}
