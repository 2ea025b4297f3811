package processing

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/stylepipe/pkg/pipeline"
	"gopkg.in/yaml.v3"
)

// DefaultStylesheetInclude matches every file; files no rule handles are
// dropped by Probe.
const DefaultStylesheetInclude = "**/*"

// Match records which rule variant handles one request.
type Match struct {
	Request string               `yaml:"request"`
	Lang    string               `yaml:"lang"`
	Variant pipeline.VariantKind `yaml:"variant"`
	// Loaders in the order the host runs them.
	Loaders []string `yaml:"loaders"`
}

// DiscoverStylesheets returns the files under root that match include and do
// not match exclude, as sorted slash-separated paths relative to root.
func DiscoverStylesheets(root string, include, exclude []string) ([]string, error) {
	files, err := walkStylesheets(os.DirFS(root), include, exclude)
	if err != nil {
		return nil, fmt.Errorf("discovering stylesheets under %s: %w", root, err)
	}
	return files, nil
}

func walkStylesheets(fsys fs.FS, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = []string{DefaultStylesheetInclude}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("exclude %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	seen := make(map[string]bool)
	for _, pattern := range include {
		err := doublestar.GlobWalk(fsys, pattern, func(path string, _ fs.DirEntry) error {
			if !excluded(path, exclude) {
				seen[path] = true
			}
			return nil
		}, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", pattern, err)
		}
	}

	files := slices.Collect(maps.Keys(seen))
	slices.Sort(files)
	return files, nil
}

func excluded(path string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		return doublestar.MatchUnvalidated(p, path)
	})
}

// Probe reports the rule variant that handles each request. Requests no
// rule matches are skipped.
func Probe(p *pipeline.BuildPipeline, requests []string) []Match {
	var matches []Match
	for _, req := range requests {
		rule, variant, ok := p.Match(req)
		if !ok {
			slog.Debug("no style rule matches request", "target", p.Target, "request", req)
			continue
		}

		var loaders []string
		for _, s := range variant.Steps.ExecutionOrder() {
			loaders = append(loaders, s.Loader)
		}
		matches = append(matches, Match{
			Request: req,
			Lang:    rule.Lang,
			Variant: variant.Kind,
			Loaders: loaders,
		})
	}
	return matches
}

// WriteProbe writes matches as a YAML list.
func WriteProbe(w io.Writer, matches []Match) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(matches); err != nil {
		return fmt.Errorf("encoding probe results: %w", err)
	}
	return enc.Close()
}
