package categorizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/Chandru1806/MCA/internal/models"
)

type compiledRule struct {
	re         *regexp.Regexp
	category   string
	confidence float64
}

// ruleEngine is the deterministic layer. It is read-only after
// construction and safe for concurrent use.
type ruleEngine struct {
	rs    *RuleSet
	regex []compiledRule

	keywords *ahocorasick.Matcher
	// keywordGroup maps a dictionary index to its position in rs.Keywords.
	keywordGroup []int

	business []string
	names    []string
}

func newRuleEngine(rs *RuleSet) (*ruleEngine, error) {
	e := &ruleEngine{rs: rs}
	for i, r := range rs.RegexRules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("regex_rules[%d]: %w", i, err)
		}
		e.regex = append(e.regex, compiledRule{re: re, category: r.Category, confidence: r.Confidence})
	}

	var dict []string
	for gi, g := range rs.Keywords {
		for _, m := range g.Merchants {
			if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
				dict = append(dict, m)
				e.keywordGroup = append(e.keywordGroup, gi)
			}
		}
	}
	e.keywords = ahocorasick.NewStringMatcher(dict)

	e.business = lowerAll(rs.BusinessWords)
	e.names = lowerAll(rs.PersonNames)
	return e, nil
}

// classify runs overrides, regex rules, keyword table, person heuristic
// and fallback in that order. The first layer that matches decides.
func (e *ruleEngine) classify(desc, merchant string) (string, float64) {
	lower := strings.ToLower(desc)

	for _, o := range e.rs.Overrides {
		if o.matches(lower) {
			return o.Category, o.Confidence
		}
	}
	for _, r := range e.regex {
		if r.re.MatchString(lower) {
			return r.category, r.confidence
		}
	}
	if g, ok := e.keywordHit(lower, merchant); ok {
		return e.rs.Keywords[g].Category, e.rs.KeywordConfidence
	}
	if e.isPerson(merchant, lower) {
		return models.CategoryPerson, e.rs.PersonConfidence
	}
	return e.rs.Fallback.Category, e.rs.Fallback.Confidence
}

// keywordHit returns the earliest keyword group with a substring hit in
// either the description or the merchant.
func (e *ruleEngine) keywordHit(lower, merchant string) (int, bool) {
	best := -1
	for _, text := range []string{lower, merchant} {
		if text == "" {
			continue
		}
		for _, idx := range e.keywords.MatchThreadSafe([]byte(text)) {
			if g := e.keywordGroup[idx]; best < 0 || g < best {
				best = g
			}
		}
	}
	return best, best >= 0
}

// isPerson treats a merchant as a private individual when it carries no
// business word and either shares a fragment with a known name or, on a
// UPI/IMPS/NEFT transfer, looks like a two to four word personal name.
func (e *ruleEngine) isPerson(merchant, lowerDesc string) bool {
	if len(merchant) < 3 {
		return false
	}
	m := strings.ToLower(merchant)
	for _, bw := range e.business {
		if strings.Contains(m, bw) {
			return false
		}
	}

	words := strings.Fields(m)
	for _, w := range words {
		if len(w) < 4 {
			continue
		}
		for _, name := range e.names {
			if strings.Contains(w, name) || strings.Contains(name, w) {
				return true
			}
		}
	}

	if !containsAny(lowerDesc, "upi", "imps", "neft") || len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if len(w) < 3 || !isAlpha(w) {
			return false
		}
	}
	return true
}

func (o Override) matches(lower string) bool {
	if len(o.Any) > 0 && containsAny(lower, o.Any...) {
		return true
	}
	if len(o.All) == 0 {
		return false
	}
	for _, s := range o.All {
		if !strings.Contains(lower, strings.ToLower(s)) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
