package parser

import (
	"strings"
	"testing"

	"github.com/alnah/go-md2docx/internal/block"
)

func TestDefaultRulesOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		RuleFence, RuleTable, RuleTOC, RuleRule, RuleChat,
		RuleQuote, RuleHeading, RuleImage, RuleList, RuleBlank,
	}
	rules := DefaultRules()
	if len(rules) != len(want) {
		t.Fatalf("DefaultRules() has %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Errorf("rule %d = %q, want %q", i, r.Name, want[i])
		}
	}
}

func TestRegistryLookupPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{"```go", RuleFence},
		{"| a |", RuleTable},
		{"[TOC]", RuleTOC},
		{"---", RuleRule},
		{"User: hi", RuleChat},
		{"> quote", RuleQuote},
		{"## h", RuleHeading},
		{"![a](b)", RuleImage},
		{"- item", RuleList},
		{"   ", RuleBlank},
	}

	r := DefaultRegistry()
	for _, tt := range tests {
		rule, ok := r.Lookup(tt.line)
		if !ok || rule.Name != tt.want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", tt.line, rule.Name, ok, tt.want)
		}
	}
	if _, ok := r.Lookup("plain text"); ok {
		t.Error("Lookup(plain text) matched a rule")
	}
}

func TestRegistryRegisterIgnoresIncomplete(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Rule{Name: "no-apply", Match: func(string) bool { return true }})
	r.Register(Rule{Name: "no-match", Apply: func(*Scanner, Line) {}})
	if len(r.Rules()) != 0 {
		t.Errorf("Rules() = %d, want 0", len(r.Rules()))
	}
}

func TestRegistryRulesIsCopy(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	rules := r.Rules()
	rules[0].Name = "changed"
	if r.Rules()[0].Name != RuleFence {
		t.Error("Rules() exposed internal slice")
	}
}

func TestCustomRule(t *testing.T) {
	t.Parallel()

	// A page-break marker, consumed together with the blank line after it.
	pageBreak := Rule{
		Name:  "page-break",
		Match: func(line string) bool { return strings.TrimSpace(line) == "\\pagebreak" },
		Apply: func(s *Scanner, ln Line) {
			last := ln
			if next, ok := s.Peek(); ok && strings.TrimSpace(next.Text) == "" {
				last, _ = s.Next()
			}
			s.Emit(block.Block{Kind: block.Rule, Content: "page"}, ln, last)
		},
	}

	r := NewRegistry(append([]Rule{pageBreak}, DefaultRules()...)...)
	got := Parse("before\n\\pagebreak\n\nafter", WithRegistry(r), WithPositions())

	want := []block.Kind{block.Paragraph, block.Rule, block.Paragraph}
	if len(got) != len(want) {
		t.Fatalf("Parse() returned %d blocks: %+v", len(got), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("block %d = %v, want %v", i, got[i].Kind, k)
		}
	}
	if got[1].Pos.Line != 2 || got[1].Pos.End != got[1].Pos.Start+len("\\pagebreak")+1 {
		t.Errorf("page break position = %+v", got[1].Pos)
	}
}

func TestScannerState(t *testing.T) {
	t.Parallel()

	var seen []State
	probe := Rule{
		Name:  "probe",
		Match: func(line string) bool { return line == "probe" },
		Apply: func(s *Scanner, _ Line) { seen = append(seen, s.State()) },
	}
	r := NewRegistry(append([]Rule{probe}, DefaultRules()...)...)

	// The probe inside the fence is never dispatched.
	Parse("probe\n```\nprobe\n```\nprobe", WithRegistry(r))
	if len(seen) != 2 {
		t.Fatalf("probe applied %d times, want 2", len(seen))
	}
	for _, st := range seen {
		if st != StateNormal {
			t.Errorf("state = %v, want normal", st)
		}
	}
}
