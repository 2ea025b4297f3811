package steps

import (
	"log/slog"

	"github.com/systemstart/stylepipe/pkg/api"
)

// NewChain builds the loader chain of one rule variant.
//
// The order is fixed: delivery (style injection or extraction), style module
// typings, css-loader, postcss-loader, then the language transform.
func NewChain(ctx api.BuildContext, extra *api.ExtraStep, scoped bool, r Resolver) List {
	var l List

	if s, ok := newDeliveryStep(ctx, r); ok {
		l.add(s)
	}

	if ctx.IsDevelopment && scoped && ctx.Config.CSSModulesTypescriptLoader != nil {
		l.add(NewTypingsStep(ctx.Config.CSSModulesTypescriptLoader, r))
	}

	l.add(NewCSSStep(ctx, scoped, r))
	l.add(NewPostCSSStep(ctx, r))

	if extra != nil {
		l.add(NewExtraStep(*extra, ctx.Config.LoaderOverride(extra.Loader), r))
	}

	return l
}

func (l *List) add(s Step) {
	if err := l.Append(s); err != nil {
		slog.Warn("dropping step from chain", "step", s.Name, "error", err)
	}
}
