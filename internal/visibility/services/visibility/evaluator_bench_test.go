package visibility

import (
	"testing"

	"github.com/haukened/condvis/internal/visibility/domain"
)

func BenchmarkEvaluate_Domain(b *testing.B) {
	rule := domain.NewDomainRule("nl")
	ctx := domain.Context{CurrentDomainSlug: "be"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(rule, ctx)
	}
}

func BenchmarkEvaluate_FieldContains(b *testing.B) {
	rule := domain.NewFieldRule("utm_source", "mail", domain.Contains)
	ctx := domain.Context{RequestVariables: domain.Variables{"utm_source": "weekly <b>mail</b> digest"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(rule, ctx)
	}
}
