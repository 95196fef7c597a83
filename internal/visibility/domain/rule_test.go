package domain

import "testing"

func TestNewDomainRule(t *testing.T) {
	r := NewDomainRule("nl")
	if r.Kind != DomainMatch {
		t.Fatalf("Kind = %v, want domain", r.Kind)
	}
	if r.ExpectedSlug != "nl" {
		t.Errorf("ExpectedSlug = %q, want nl", r.ExpectedSlug)
	}
	if r.Inert() {
		t.Errorf("rule with slug should not be inert")
	}
	if r.IsGeneral() {
		t.Errorf("nl is not the general sentinel")
	}
}

func TestRule_Inert(t *testing.T) {
	if !NewDomainRule("").Inert() {
		t.Errorf("empty domain rule should be inert")
	}
	if NewFieldRule("v", "", Equals).Inert() {
		t.Errorf("field rules are never inert")
	}
}

func TestRule_IsGeneral(t *testing.T) {
	if !NewDomainRule(GeneralSlug).IsGeneral() {
		t.Errorf("algemeen should be general")
	}
	if NewDomainRule("Algemeen").IsGeneral() {
		t.Errorf("sentinel is case-sensitive")
	}
}

func TestNewFieldRule(t *testing.T) {
	r := NewFieldRule("v", "x", Contains)
	if r.Kind != FieldMatch || r.VariableName != "v" || r.ExpectedValue != "x" || r.Comparator != Contains {
		t.Fatalf("unexpected rule: %+v", r)
	}
}
