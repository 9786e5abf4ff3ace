package items

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadPattern marks a regex rule whose pattern does not compile.
var ErrBadPattern = errors.New("invalid regex pattern")

// Rule kinds accepted in the item_categories config mapping.
const (
	RuleKindList         = "list"
	RuleKindRegex        = "regex"
	RuleKindNameContains = "name_contains"
)

// Rule is a category matching rule. Exactly one of ListRule, RegexRule and
// NameContainsRule implements it; invalid payloads are rejected by ParseRule
// so rule evaluation never has to type-check its value.
type Rule interface {
	isRule()
}

// ListRule matches an explicit set of item IDs.
type ListRule struct {
	Ids []string
}

// RegexRule matches item IDs against a pattern anchored at the start of the
// ID. The match may end before the end of the ID unless the pattern itself
// is anchored with $.
type RegexRule struct {
	re *regexp.Regexp
}

// NameContainsRule matches item display names by case-insensitive substring.
type NameContainsRule struct {
	Substring string
}

func (ListRule) isRule()         {}
func (RegexRule) isRule()        {}
func (NameContainsRule) isRule() {}

// MatchId reports whether the pattern matches from the start of the item ID.
func (r RegexRule) MatchId(id string) bool {
	return r.re.MatchString(id)
}

// ParseRule validates a raw config rule and returns its typed form. All shape
// errors surface here, at rule table construction, rather than during
// category resolution.
func ParseRule(kind string, value any) (Rule, error) {
	switch kind {
	case RuleKindList:
		ids, err := toStringSlice(value)
		if err != nil {
			return nil, fmt.Errorf("rule type %q requires a list of item IDs: %w", kind, err)
		}
		return ListRule{Ids: ids}, nil
	case RuleKindRegex:
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("rule type %q requires a string pattern, got %T", kind, value)
		}
		// \A(?:...) reproduces match-from-start semantics regardless of
		// whether the pattern itself is anchored.
		re, err := regexp.Compile(`\A(?:` + pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, pattern, err)
		}
		return RegexRule{re: re}, nil
	case RuleKindNameContains:
		substr, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("rule type %q requires a string value, got %T", kind, value)
		}
		return NameContainsRule{Substring: substr}, nil
	case "":
		return nil, fmt.Errorf("rule has no type")
	default:
		return nil, fmt.Errorf("unsupported rule type %q", kind)
	}
}

// toStringSlice accepts both []string and the []any that yaml.v3 produces for
// untyped sequences.
func toStringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list element %v is %T, not a string", item, item)
			}
			ids = append(ids, s)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("value is %T, not a list", value)
	}
}
