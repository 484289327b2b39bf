package rule

// Violates compares actual against threshold using c.
// EQUALS is exact float equality. Unknown conditions never violate.
func Violates(actual, threshold float64, c Condition) bool {
	switch c {
	case ConditionGreaterThan:
		return actual > threshold
	case ConditionLessThan:
		return actual < threshold
	case ConditionEquals:
		return actual == threshold
	default:
		return false
	}
}

// Match returns a violation for every rule that value breaks
func Match(rules []*Rule, value float64) []Violation {
	var out []Violation
	for _, r := range rules {
		if r.ViolatedBy(value) {
			out = append(out, Violation{Rule: *r, ActualValue: value})
		}
	}
	return out
}
