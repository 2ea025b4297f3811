package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Options selects the log handler.
type Options struct {
	Type  string
	Level string
	// NoColor turns off ANSI colors for the tint handler.
	NoColor bool
}

// NewHandler returns a handler writing to w.
func NewHandler(w io.Writer, opts Options) (slog.Handler, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("could not parse log level: %w", err)
	}

	switch opts.Type {
	case JSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: level}), nil
	case Text:
		return slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true, Level: level}), nil
	case Tint:
		return tint.NewHandler(w, &tint.Options{AddSource: true, Level: level, NoColor: opts.NoColor}), nil
	default:
		return nil, fmt.Errorf("unknown logging type: %s", opts.Type)
	}
}

// Initialize installs a NewHandler logger as the slog default. Rendered
// pipelines may go to stdout, so the CLI passes stderr here.
func Initialize(w io.Writer, opts Options) error {
	h, err := NewHandler(w, opts)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	slog.Debug("logging initialized", "level", opts.Level, "type", opts.Type)
	return nil
}
