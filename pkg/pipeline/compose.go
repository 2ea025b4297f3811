// Package pipeline decides which style rules and plugins a build gets.
//
// ComposeRule turns one stylesheet language into a pair of loader chains, one
// for style modules and one for global stylesheets. Assemble runs it for every
// language and adds the build-wide extraction and minification plugins.
// Nothing here touches the filesystem or loads a loader; the result only names
// implementations for the host build tool to resolve.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/systemstart/stylepipe/pkg/api"
	"github.com/systemstart/stylepipe/pkg/steps"
)

// VariantKind tells style module rules apart from global ones.
type VariantKind string

const (
	Scoped VariantKind = "scoped"
	Global VariantKind = "global"
)

// modulesQuery selects the scoped variant, e.g. "./button.css?modules".
var modulesQuery = regexp.MustCompile(`modules`)

// Variant is one branch of a rule with its loader chain.
type Variant struct {
	Kind VariantKind
	// Name is the branch name in the generated rule ("css-modules" or "css").
	Name string
	// ResourceQuery selects the branch; nil matches every request.
	ResourceQuery *regexp.Regexp
	Steps         steps.List
}

// Rule holds both variants of one stylesheet language. The scoped variant is
// tried first.
type Rule struct {
	Lang   string
	Test   *regexp.Regexp
	Scoped Variant
	Global Variant
}

// Variants returns the variants in match order.
func (r Rule) Variants() []Variant {
	return []Variant{r.Scoped, r.Global}
}

// ComposeRule builds the scoped and global loader chains for spec.
// A nil resolver hands step names through unchanged.
func ComposeRule(ctx api.BuildContext, spec api.StyleRuleSpec, r steps.Resolver) Rule {
	if r == nil {
		r = steps.NameResolver{}
	}

	return Rule{
		Lang: spec.Lang,
		Test: spec.Test,
		Scoped: Variant{
			Kind:          Scoped,
			Name:          "css-modules",
			ResourceQuery: modulesQuery,
			Steps:         steps.NewChain(ctx, spec.Extra, true, r),
		},
		Global: Variant{
			Kind:  Global,
			Name:  "css",
			Steps: steps.NewChain(ctx, spec.Extra, false, r),
		},
	}
}

// Match reports which variant handles request. The query string, if any,
// decides between the scoped and the global variant.
func (r Rule) Match(request string) (Variant, bool) {
	if r.Test == nil || !r.Test.MatchString(request) {
		return Variant{}, false
	}
	query := ""
	if i := strings.IndexByte(request, '?'); i >= 0 {
		query = request[i:]
	}
	for _, v := range r.Variants() {
		if v.ResourceQuery == nil || v.ResourceQuery.MatchString(query) {
			return v, true
		}
	}
	return Variant{}, false
}
