package processing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/options"
	"github.com/systemstart/stylepipe/pkg/pipeline"
	"github.com/systemstart/stylepipe/pkg/steps"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatTemplate = "template"
)

var formatExtensions = map[string]string{
	FormatYAML:     ".yaml",
	FormatJSON:     ".json",
	FormatTemplate: ".txt",
}

// Document is the serialized form of a build pipeline, shaped like the
// module rules and plugins section of a bundler configuration.
type Document struct {
	Target  api.Target        `yaml:"target" json:"target"`
	Rules   []RuleDocument    `yaml:"rules" json:"rules"`
	Plugins []pipeline.Plugin `yaml:"plugins" json:"plugins"`
}

// RuleDocument is one language rule.
type RuleDocument struct {
	Lang  string            `yaml:"lang" json:"lang"`
	Test  string            `yaml:"test" json:"test"`
	OneOf []VariantDocument `yaml:"oneOf" json:"oneOf"`
}

// VariantDocument is one branch of a rule. Use lists loaders in declaration
// order; the bundler applies them last to first.
type VariantDocument struct {
	Name          string     `yaml:"name" json:"name"`
	ResourceQuery string     `yaml:"resourceQuery,omitempty" json:"resourceQuery,omitempty"`
	Use           steps.List `yaml:"use" json:"use"`
}

// NewDocument converts p into its serialized form.
func NewDocument(p *pipeline.BuildPipeline) Document {
	doc := Document{
		Target:  p.Target,
		Rules:   make([]RuleDocument, 0, len(p.Rules)),
		Plugins: make([]pipeline.Plugin, 0, len(p.Plugins)),
	}
	doc.Plugins = append(doc.Plugins, p.Plugins...)

	for _, r := range p.Rules {
		rd := RuleDocument{Lang: r.Lang}
		if r.Test != nil {
			rd.Test = r.Test.String()
		}
		for _, v := range r.Variants() {
			vd := VariantDocument{Name: v.Name, Use: v.Steps}
			if v.ResourceQuery != nil {
				vd.ResourceQuery = v.ResourceQuery.String()
			}
			rd.OneOf = append(rd.OneOf, vd)
		}
		doc.Rules = append(doc.Rules, rd)
	}

	return doc
}

// ValidateFormat checks that format is known and that a template is given
// when the template format is selected.
func ValidateFormat(format, tmpl string) error {
	if _, ok := formatExtensions[format]; !ok {
		return fmt.Errorf("unknown output format: %s", format)
	}
	if format == FormatTemplate && tmpl == "" {
		return fmt.Errorf("output format %q requires a template", FormatTemplate)
	}
	return nil
}

// Render serializes p. For FormatTemplate, tmpl is executed with the
// Document as data, sprig functions and an "option" lookup function.
func Render(p *pipeline.BuildPipeline, format, tmpl string) ([]byte, error) {
	if err := ValidateFormat(format, tmpl); err != nil {
		return nil, err
	}

	doc := NewDocument(p)

	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatTemplate:
		return renderTemplate(doc, tmpl)
	default:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return out, nil
	}
}

func renderTemplate(doc Document, tmpl string) ([]byte, error) {
	t, err := template.New("output").
		Funcs(sprig.FuncMap()).
		Funcs(template.FuncMap{"option": lookupOption}).
		Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

func lookupOption(opts map[string]any, path ...string) any {
	v, _ := options.Lookup(opts, path...)
	return v
}
