package recurrence

import "fmt"

// Rule is the repetition frequency persisted on a reminder.
type Rule int

const (
	Daily Rule = iota
	Weekly
	Monthly
	Yearly
)

var ruleNames = map[Rule]string{
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
	Yearly:  "yearly",
}

var ruleFromName = map[string]Rule{
	"daily":   Daily,
	"weekly":  Weekly,
	"monthly": Monthly,
	"yearly":  Yearly,
}

// Parse parses a stored rule string.
func Parse(s string) (Rule, error) {
	if s == "" {
		return 0, fmt.Errorf("empty rule")
	}
	r, ok := ruleFromName[s]
	if !ok {
		return 0, fmt.Errorf("unknown recurrence rule: %q", s)
	}
	return r, nil
}

func (r Rule) String() string {
	return ruleNames[r]
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r {
	case Daily:
		return "Repeats daily"
	case Weekly:
		return "Repeats weekly"
	case Monthly:
		return "Repeats monthly"
	case Yearly:
		return "Repeats yearly"
	}
	return ""
}
