package parser

// Rule recognizes one block syntax.
//
// Match is a pure predicate over a single raw line. Apply runs after the
// scanner has consumed that line and any pending paragraph has been
// flushed; it may consume further lines with Scanner.Peek and Scanner.Next
// and emits blocks with Scanner.Emit.
type Rule struct {
	Name  string
	Match func(line string) bool
	Apply func(s *Scanner, ln Line)
}

// Registry holds rules in precedence order. The first rule whose Match
// returns true wins.
type Registry struct {
	rules []Rule
}

// NewRegistry returns a registry holding rules in the given order.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make([]Rule, 0, len(rules))}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// DefaultRegistry returns a fresh registry holding DefaultRules.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultRules()...)
}

// Register appends rule with the lowest precedence so far.
// Rules missing Match or Apply are ignored.
func (r *Registry) Register(rule Rule) {
	if rule.Match == nil || rule.Apply == nil {
		return
	}
	r.rules = append(r.rules, rule)
}

// Rules returns a copy of the registered rules in precedence order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Lookup returns the first rule matching line.
func (r *Registry) Lookup(line string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Match(line) {
			return rule, true
		}
	}
	return Rule{}, false
}
