package processing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/pipeline"
	"github.com/systemstart/stylepipe/pkg/steps"
)

// RunOptions controls RunBuilds.
type RunOptions struct {
	// Targets restricts the run to a subset of the build file's targets.
	Targets []api.Target
	// OutputDir receives one <target><ext> file per target. Empty writes to Stdout.
	OutputDir string
	Format    string
	Template  string
	Stdout    io.Writer
}

// Assemble builds the pipelines of every target in f, in file order.
func Assemble(f *api.BuildFile, targets []api.Target) ([]*pipeline.BuildPipeline, error) {
	specs, err := pipeline.Specs(f)
	if err != nil {
		return nil, fmt.Errorf("building language specs: %w", err)
	}

	selected, err := selectTargets(f.Targets, targets)
	if err != nil {
		return nil, err
	}

	resolver := steps.NewResolver(f.Loaders)
	built := make([]*pipeline.BuildPipeline, 0, len(selected))
	for _, t := range selected {
		slog.Info("assembling style pipeline", "config", f.FilePath, "target", t, "languages", len(specs))
		built = append(built, pipeline.Assemble(f.Context(t), specs, resolver))
	}
	return built, nil
}

// RunBuilds assembles the selected targets of f and writes each rendered
// pipeline. Every target is attempted; failures are reported together.
func RunBuilds(f *api.BuildFile, opts RunOptions) ([]*pipeline.BuildPipeline, error) {
	if opts.Format == "" {
		opts.Format = FormatYAML
	}
	if err := ValidateFormat(opts.Format, opts.Template); err != nil {
		return nil, err
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	built, err := Assemble(f, opts.Targets)
	if err != nil {
		return nil, err
	}

	var failed []string
	for _, p := range built {
		if wErr := writePipeline(p, opts); wErr != nil {
			slog.Error("writing pipeline failed", "target", p.Target, "error", wErr)
			failed = append(failed, string(p.Target))
		}
	}

	if len(failed) > 0 {
		return built, fmt.Errorf("%d target(s) failed: %v", len(failed), failed)
	}
	return built, nil
}

func writePipeline(p *pipeline.BuildPipeline, opts RunOptions) error {
	data, err := Render(p, opts.Format, opts.Template)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if opts.OutputDir == "" {
		if _, err := opts.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(opts.OutputDir, string(p.Target)+formatExtensions[opts.Format])
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	slog.Info("wrote style pipeline", "target", p.Target, "output", outPath)
	return nil
}

func selectTargets(declared, requested []api.Target) ([]api.Target, error) {
	if len(requested) == 0 {
		return declared, nil
	}
	for _, t := range requested {
		if !slices.Contains(declared, t) {
			return nil, fmt.Errorf("target %q is not declared in the build file (declared: %v)", t, declared)
		}
	}
	return slices.DeleteFunc(slices.Clone(declared), func(t api.Target) bool {
		return !slices.Contains(requested, t)
	}), nil
}
