package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/logging"
	"github.com/systemstart/stylepipe/pkg/processing"
)

var version = "dev"

const (
	_ = iota
	exitLoggingSetupFailed
	exitDotenvError
	exitLoadBuildFileFailed
	exitInvalidTarget
	exitInvalidFormat
	exitLoadTemplateFailed
	exitOutputDirectoryCheckFailed
	exitOutputDirectoryCleanFailed
	exitBuildErrors
	exitProbeErrors
)

var (
	buildFile                string
	target                   string
	outputDirectory          string
	overwriteOutputDirectory bool
	outputFormat             string
	templateFile             string
	probeDirectory           string
	probeInclude             string
	probeExclude             string
	loggingType              string
	logLevel                 string
	noColor                  bool
	showVersion              bool
)

func init() {
	flag.StringVar(
		&buildFile,
		"config",
		api.DefaultBuildFilename,
		"build file describing targets, user overrides and languages")
	flag.StringVar(
		&target,
		"target",
		"",
		"only assemble this target: csr or ssr (default: all targets in the build file)")
	flag.StringVar(
		&outputDirectory,
		"output-directory",
		"",
		"write one file per target here instead of stdout")
	flag.BoolVar(
		&overwriteOutputDirectory,
		"overwrite-output-directory",
		false,
		"delete and recreate output directory")
	flag.StringVar(
		&outputFormat,
		"format",
		processing.FormatYAML,
		"output format: yaml, json or template")
	flag.StringVar(
		&templateFile,
		"template",
		"",
		"Go template file used with -format template")
	flag.StringVar(
		&probeDirectory,
		"probe-directory",
		"",
		"report which rule handles each stylesheet under this directory")
	flag.StringVar(
		&probeInclude,
		"probe-include",
		processing.DefaultStylesheetInclude,
		"comma-separated globs of files to probe")
	flag.StringVar(
		&probeExclude,
		"probe-exclude",
		"node_modules/**",
		"comma-separated globs of files to skip when probing")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&noColor,
		"no-color",
		false,
		"disable colored output of the tint logger")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := logging.Initialize(os.Stderr, logging.Options{Type: loggingType, Level: logLevel, NoColor: noColor}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitLoggingSetupFailed)
	}

	includeEnv()

	f := loadBuildFile()
	targets := selectedTargets()

	if probeDirectory != "" || flag.NArg() > 0 {
		runProbe(f, targets)
	} else {
		runBuilds(f, targets)
	}

	slog.Info("done")
}

func runBuilds(f *api.BuildFile, targets []api.Target) {
	opts := processing.RunOptions{
		Targets:   targets,
		OutputDir: outputDirectory,
		Format:    outputFormat,
		Template:  loadTemplate(),
	}
	if err := processing.ValidateFormat(opts.Format, opts.Template); err != nil {
		slog.Error("invalid output format", "format", outputFormat, "error", err)
		os.Exit(exitInvalidFormat)
	}

	prepareOutputDirectory()

	if _, err := processing.RunBuilds(f, opts); err != nil {
		slog.Error("assembling style pipelines failed", "error", err)
		os.Exit(exitBuildErrors)
	}
}

func runProbe(f *api.BuildFile, targets []api.Target) {
	requests := flag.Args()
	if probeDirectory != "" {
		files, err := processing.DiscoverStylesheets(probeDirectory, splitFlag(probeInclude), splitFlag(probeExclude))
		if err != nil {
			slog.Error("stylesheet discovery failed", "directory", probeDirectory, "error", err)
			os.Exit(exitProbeErrors)
		}
		slog.Info("discovered files", "directory", probeDirectory, "count", len(files))
		requests = append(requests, files...)
	}

	built, err := processing.Assemble(f, targets)
	if err != nil {
		slog.Error("assembling style pipelines failed", "error", err)
		os.Exit(exitBuildErrors)
	}

	for _, p := range built {
		fmt.Printf("# target: %s\n", p.Target)
		if err := processing.WriteProbe(os.Stdout, processing.Probe(p, requests)); err != nil {
			slog.Error("writing probe results failed", "target", p.Target, "error", err)
			os.Exit(exitProbeErrors)
		}
	}
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}

func loadBuildFile() *api.BuildFile {
	f, err := api.LoadBuildFile(buildFile)
	if err != nil {
		slog.Error("failed to load build file", "filename", buildFile, "error", err)
		os.Exit(exitLoadBuildFileFailed)
	}
	return f
}

func selectedTargets() []api.Target {
	if target == "" {
		return nil
	}
	t := api.Target(target)
	if !t.Valid() {
		slog.Error("-target must be csr or ssr", "target", target)
		os.Exit(exitInvalidTarget)
	}
	return []api.Target{t}
}

func loadTemplate() string {
	if templateFile == "" {
		return ""
	}
	data, err := os.ReadFile(templateFile)
	if err != nil {
		slog.Error("failed to read template", "filename", templateFile, "error", err)
		os.Exit(exitLoadTemplateFailed)
	}
	return string(data)
}

func prepareOutputDirectory() {
	if outputDirectory == "" || !overwriteOutputDirectory {
		return
	}

	_, err := os.Stat(outputDirectory)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		slog.Error("failed to check output directory", "directory", outputDirectory, "error", err)
		os.Exit(exitOutputDirectoryCheckFailed)
	}

	if err := os.RemoveAll(outputDirectory); err != nil {
		slog.Error("failed to clean output directory", "directory", outputDirectory, "error", err)
		os.Exit(exitOutputDirectoryCleanFailed)
	}
}

func splitFlag(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
