package core

import (
	"regexp"
	"strings"
)

// bankPattern ties a bank identifier to the regex that recognizes it.
// Table order is the tie-break policy: the first match wins
type bankPattern struct {
	id      BankID
	pattern *regexp.Regexp
}

var bankPatterns = []bankPattern{
	{"fab", regexp.MustCompile(`fab|first abu dhabi bank`)},
	{"adcb", regexp.MustCompile(`adcb|abu dhabi commercial bank`)},
	{"enbd", regexp.MustCompile(`enbd|emirates nbd`)},
	{"adib", regexp.MustCompile(`adib|abu dhabi islamic bank`)},
	{"dib", regexp.MustCompile(`dib|dubai islamic bank`)},
	{"mashreq", regexp.MustCompile(`mashreq`)},
	{"rakbank", regexp.MustCompile(`rak|rakbank`)},
	{"nbf", regexp.MustCompile(`nbf|national bank of fujairah`)},
	{"hsbc", regexp.MustCompile(`hsbc`)},
	{"citibank", regexp.MustCompile(`citi`)},
	{"sc", regexp.MustCompile(`standard chartered`)},
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)account.*?(\d{4,6})`),
	regexp.MustCompile(`(?i)a/c.*?(\d{4,6})`),
	regexp.MustCompile(`(?i)account ending.*?(\d{4,6})`),
}

var cardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)card.*?(\d{4})`),
	regexp.MustCompile(`(?i)credit card.*?(\d{4})`),
	regexp.MustCompile(`(?i)ending.*?(\d{4})`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{2,4}[/-]\d{1,2}[/-]\d{1,2})\b`),
}

// BankContextExtractor derives bank identity and account/card/date fragments
// from an email. It is pure: identical input always yields an identical
// BankContext
type BankContextExtractor struct{}

// NewBankContextExtractor creates a new bank context extractor
func NewBankContextExtractor() *BankContextExtractor {
	return &BankContextExtractor{}
}

// Extract builds the BankContext for one email. The sender is checked before
// the body when identifying the bank. Dates are collected as raw strings and
// not validated as real calendar dates
func (e *BankContextExtractor) Extract(body, sender string) BankContext {
	ctx := BankContext{Bank: BankUnknown}

	senderLower := strings.ToLower(sender)
	bodyLower := strings.ToLower(body)
	for _, bp := range bankPatterns {
		if bp.pattern.MatchString(senderLower) || bp.pattern.MatchString(bodyLower) {
			ctx.Bank = bp.id
			break
		}
	}

	ctx.AccountFragments = collectFragments(body, accountPatterns)
	ctx.CardFragments = collectFragments(body, cardPatterns)
	ctx.Dates = collectFragments(body, datePatterns)

	return ctx
}

func collectFragments(body string, patterns []*regexp.Regexp) []string {
	set := make(map[string]struct{})
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(body, -1) {
			set[match[1]] = struct{}{}
		}
	}
	return sortedKeys(set)
}
