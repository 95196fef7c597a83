package visibility

import "github.com/haukened/condvis/internal/visibility/domain"

// WidgetName is the host type name of the conditional widget.
const WidgetName = "conditional_widget"

// WidgetSettings is the configuration of a conditional content widget.
type WidgetSettings struct {
	Content       string
	RequestVar    string
	RequestValue  string
	ConditionType domain.Comparator
}

// Rule converts the widget settings into a FieldMatch rule.
// An empty condition type means equals, the control's default.
func (s WidgetSettings) Rule() domain.Rule {
	cmp := s.ConditionType
	if cmp == "" {
		cmp = domain.Equals
	}
	return domain.NewFieldRule(s.RequestVar, s.RequestValue, cmp)
}

// EvaluateWidget decides whether the widget content is shown.
func EvaluateWidget(s WidgetSettings, vars Variables) domain.Decision {
	return Evaluate(s.Rule(), widgetContext(s.RequestVar, vars))
}

// RenderWidget returns the widget content when its rule is visible, "" otherwise.
func RenderWidget(s WidgetSettings, vars Variables) string {
	if EvaluateWidget(s, vars).Hidden {
		return ""
	}
	return s.Content
}

// widgetContext snapshots the single variable the widget reads.
func widgetContext(name string, vars Variables) domain.Context {
	ctx := domain.Context{RequestVariables: domain.Variables{}}
	if vars == nil {
		return ctx
	}
	key := Sanitize(name)
	if v, ok := vars.Get(key); ok {
		ctx.RequestVariables[key] = v
	}
	return ctx
}
