package api

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override scalar
// build file settings.
const EnvPrefix = "STYLEPIPE_"

// envKeys maps supported environment variables to build file keys.
var envKeys = map[string]string{
	EnvPrefix + "TARGETS":             "targets",
	EnvPrefix + "IS_DEVELOPMENT":      "isDevelopment",
	EnvPrefix + "DISABLE_COMPRESSION": "disableCompression",
	EnvPrefix + "BROWSER_TARGETS":     "browserTargets",
	EnvPrefix + "EXTRACTION_PLUGIN":   "extractionPlugin",
	EnvPrefix + "EXTRACTION_LOADER":   "extractionLoader",
	EnvPrefix + "HASH":                "config.hash",
}

var envLists = map[string]bool{
	"targets":        true,
	"browserTargets": true,
}

// LoadBuildFile reads a stylepipe.yaml file, overlays STYLEPIPE_* environment
// variables, applies defaults and validates the result.
func LoadBuildFile(filename string) (*BuildFile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(filename), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading build file: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	var f BuildFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("parsing build file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	f.FilePath = absPath

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validating build file %s: %w", filename, err)
	}

	return &f, nil
}

func envValue(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	if envLists[key] {
		return key, splitList(value)
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func applyDefaults(f *BuildFile) {
	if len(f.Targets) == 0 {
		f.Targets = []Target{TargetCSR}
	}
}
