package core

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// rulePatterns match natural-language fragments describing how a password is
// constructed. Matches are kept verbatim and never parsed semantically
var rulePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password (is|will be|format|structure|contains)[\s:]*[^\n.]{1,100}`),
	regexp.MustCompile(`(?i)pdf password[\s:]*[^\n.]{1,100}`),
	regexp.MustCompile(`(?i)to open.*password[\s:]*[^\n.]{1,100}`),
	regexp.MustCompile(`(?i)statement password[\s:]*[^\n.]{1,100}`),
	regexp.MustCompile(`(?i)password.*last \d+ digits`),
	regexp.MustCompile(`(?i)password.*birth date`),
	regexp.MustCompile(`(?i)password.*mobile number`),
	regexp.MustCompile(`(?i)password.*card number`),
	regexp.MustCompile(`(?i)password.*account number`),
	regexp.MustCompile(`(?i)password.*first name`),
	regexp.MustCompile(`(?i)password.*last name`),
	regexp.MustCompile(`(?i)password.*date of birth`),
	regexp.MustCompile(`(?i)password.*phone number`),
	regexp.MustCompile(`(?i)password.*DDMMYYYY`),
	regexp.MustCompile(`(?i)password.*DD/MM/YYYY`),
	regexp.MustCompile(`(?i)password.*YYYYMMDD`),
	regexp.MustCompile(`(?i)combination of.*password`),
	regexp.MustCompile(`(?i)password.*combination.*of`),
}

// hintPatterns match literal tokens that directly follow a password marker
var hintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password[\s:=]*([A-Za-z0-9@#$%^&*()_+\-=\[\]{}|;:,.<>?]{4,20})`),
	regexp.MustCompile(`(?i)pdf password[\s:=]*([A-Za-z0-9@#$%^&*()_+\-=\[\]{}|;:,.<>?]{4,20})`),
	regexp.MustCompile(`(?i)to open.*password[\s:=]*([A-Za-z0-9@#$%^&*()_+\-=\[\]{}|;:,.<>?]{4,20})`),
}

var (
	hintDatePattern  = regexp.MustCompile(`\b\d{1,4}[/-]\d{1,2}[/-]\d{2,4}\b`)
	hintDigitRun     = regexp.MustCompile(`\b\d{4,8}\b`)
	hintAlnumToken   = regexp.MustCompile(`\b[A-Za-z0-9]{4,20}\b`)
	separatorReplace = strings.NewReplacer("/", "", "-", "")
)

// HintExtractor scans raw email text for password rules and literal hint
// tokens. It is deliberately over-inclusive: ranking is the candidate
// generator's job, not the extractor's
type HintExtractor struct {
	minRuleLen int
	minHintLen int
}

// NewHintExtractor creates a new hint extractor
func NewHintExtractor() *HintExtractor {
	return &HintExtractor{
		minRuleLen: 10,
		minHintLen: 4,
	}
}

// Extract returns the password hints and rules found in the email body.
// Both result slices are deduplicated and sorted; an empty body yields
// empty results
func (e *HintExtractor) Extract(body string) (hints []string, rules []string) {
	if body == "" {
		return nil, nil
	}

	ruleSet := make(map[string]struct{})
	for _, pattern := range rulePatterns {
		for _, match := range pattern.FindAllString(body, -1) {
			rule := strings.TrimSpace(match)
			if len(rule) > e.minRuleLen {
				ruleSet[rule] = struct{}{}
			}
		}
	}

	hintSet := make(map[string]struct{})
	addHint := func(raw string) {
		hint := strings.Trim(strings.TrimSpace(raw), ".,;:")
		if len(hint) >= e.minHintLen {
			hintSet[hint] = struct{}{}
		}
	}

	// Tokens directly following a password marker
	for _, pattern := range hintPatterns {
		for _, match := range pattern.FindAllStringSubmatch(body, -1) {
			addHint(match[1])
		}
	}

	// Separator-delimited dates, normalized by stripping separators
	for _, date := range hintDatePattern.FindAllString(body, -1) {
		addHint(separatorReplace.Replace(date))
	}

	// Bare digit runs
	for _, digits := range hintDigitRun.FindAllString(body, -1) {
		addHint(digits)
	}

	// Tokens mixing letters and digits
	for _, token := range hintAlnumToken.FindAllString(body, -1) {
		if mixesLettersAndDigits(token) {
			addHint(token)
		}
	}

	return sortedKeys(hintSet), sortedKeys(ruleSet)
}

func mixesLettersAndDigits(s string) bool {
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
