package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hoach/statement-unlocker/internal/utils"
	"go.uber.org/zap"
)

// DefaultCandidateLimit bounds the ranked candidate list
const DefaultCandidateLimit = 20

// CandidateGenerator combines hints, rules, personal facts and bank context
// into a deduplicated, confidence-ranked list of password candidates. When an
// LLM backend is configured its suggestions are merged in; when the backend is
// nil or fails, generation silently degrades to the rule-based ladder
type CandidateGenerator struct {
	llm           LLMClient
	limit         int
	maxBodySize   int
	llmTimeout    time.Duration
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewCandidateGenerator creates a new candidate generator. llm may be nil
func NewCandidateGenerator(
	llm LLMClient,
	limit int,
	maxBodySize int,
	llmTimeout time.Duration,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *CandidateGenerator {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &CandidateGenerator{
		llm:           llm,
		limit:         limit,
		maxBodySize:   maxBodySize,
		llmTimeout:    llmTimeout,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Generate produces the ranked candidate list for one email. It never returns
// an error: every degradation path is logged and swallowed, and callers must
// handle an empty result
func (g *CandidateGenerator) Generate(ctx context.Context, req GenerateRequest) []PasswordCandidate {
	var candidates []PasswordCandidate

	if g.llm != nil {
		llmCandidates := g.llmCandidates(ctx, req)
		candidates = append(candidates, llmCandidates...)
	}

	candidates = append(candidates, g.ruleBasedCandidates(req)...)

	return rankAndDedupe(candidates, g.limit)
}

// ruleBasedCandidates walks the heuristic ladder from strongest to weakest
// signal
func (g *CandidateGenerator) ruleBasedCandidates(req GenerateRequest) []PasswordCandidate {
	var candidates []PasswordCandidate

	for _, hint := range req.Hints {
		if len(hint) < 4 {
			continue
		}
		candidates = append(candidates, PasswordCandidate{
			Value:      hint,
			Confidence: 9.0,
			Source:     SourceDirectHint,
			Reasoning:  fmt.Sprintf("found direct password hint: %s", hint),
		})
	}

	for _, fact := range req.Facts {
		if fact.Category != FactBirthDate {
			continue
		}
		date := separatorReplace.Replace(fact.Value)
		candidates = append(candidates, PasswordCandidate{
			Value:      date,
			Confidence: 7.0,
			Source:     SourceBirthDate,
			Reasoning:  fmt.Sprintf("birth date format: %s", date),
		})
	}

	for _, card := range req.Context.CardFragments {
		candidates = append(candidates, PasswordCandidate{
			Value:      card,
			Confidence: 8.0,
			Source:     SourceCardNumber,
			Reasoning:  fmt.Sprintf("last 4 digits of card: %s", card),
		})
	}

	for _, account := range req.Context.AccountFragments {
		candidates = append(candidates, PasswordCandidate{
			Value:      account,
			Confidence: 7.0,
			Source:     SourceAccountNumber,
			Reasoning:  fmt.Sprintf("account number digits: %s", account),
		})
	}

	for _, date := range req.Context.Dates {
		stripped := separatorReplace.Replace(date)
		if len(stripped) < 6 {
			continue
		}
		candidates = append(candidates, PasswordCandidate{
			Value:      stripped,
			Confidence: 6.0,
			Source:     SourceEmailDate,
			Reasoning:  fmt.Sprintf("date from email: %s", stripped),
		})
	}

	for _, fact := range req.Facts {
		if fact.Category != FactMobileNumber {
			continue
		}
		last4 := fact.Value
		if len(last4) > 4 {
			last4 = last4[len(last4)-4:]
		}
		candidates = append(candidates, PasswordCandidate{
			Value:      last4,
			Confidence: 6.0,
			Source:     SourceMobileNumber,
			Reasoning:  fmt.Sprintf("last 4 digits of mobile: %s", last4),
		})
	}

	for _, fact := range req.Facts {
		if fact.Category != FactFirstName {
			continue
		}
		for _, card := range req.Context.CardFragments {
			combo := strings.ToLower(fact.Value) + card
			candidates = append(candidates, PasswordCandidate{
				Value:      combo,
				Confidence: 5.0,
				Source:     SourceNameCardCombo,
				Reasoning:  fmt.Sprintf("first name + card digits: %s", combo),
			})
		}
	}

	return candidates
}

// llmCandidates asks the configured backend for suggestions. Any failure is
// logged and yields no candidates
func (g *CandidateGenerator) llmCandidates(ctx context.Context, req GenerateRequest) []PasswordCandidate {
	if g.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.llmTimeout)
		defer cancel()
	}

	prompt := g.buildPrompt(req)

	response, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("LLM generation failed, falling back to rule-based candidates",
			zap.String("backend", g.llm.Name()),
			zap.Error(err))
		return nil
	}

	candidates := ParseLLMResponse(response)
	g.logger.Debug("Generated candidates from LLM",
		zap.String("backend", g.llm.Name()),
		zap.Int("count", len(candidates)))

	return candidates
}

// buildPrompt embeds the email excerpt, extracted rules and hints, personal
// facts and bank context into a natural-language prompt asking for the top 5
// passwords as JSON
func (g *CandidateGenerator) buildPrompt(req GenerateRequest) string {
	body := req.Email.Body
	if g.textProcessor != nil {
		body = g.textProcessor.ProcessText(body, g.maxBodySize)
	}

	rules := "None specified"
	if len(req.Rules) > 0 {
		rules = strings.Join(req.Rules, "\n")
	}
	hints := "None found"
	if len(req.Hints) > 0 {
		hints = strings.Join(req.Hints, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert password analyst. Your task is to analyze bank statement emails and generate the most likely PDF password based on the provided information.

EMAIL CONTENT:
%s

PASSWORD RULES FOUND:
%s

PASSWORD HINTS FOUND:
%s

PERSONAL DATA AVAILABLE:
`, body, rules, hints)

	for category, values := range groupFacts(req.Facts) {
		if len(values) > 3 {
			values = values[:3]
		}
		fmt.Fprintf(&sb, "- %s: %s\n", category, strings.Join(values, ", "))
	}

	fmt.Fprintf(&sb, `
BANK CONTEXT:
- Bank: %s
- Account Numbers: %s
- Card Numbers: %s
- Dates Found: %s

COMMON BANK PASSWORD PATTERNS:
1. Last 4 digits of card/account number
2. Date of birth (DDMMYYYY, MMDDYYYY)
3. Mobile number last 4 digits
4. First name + last 4 digits of card
5. DDMMYYYY format dates
6. Account number variations

TASK: Generate the 5 most likely passwords based on this analysis. For each password, provide:
1. The password itself
2. Confidence level (1-10)
3. Reasoning for this choice

Format your response as JSON:
{
  "passwords": [
    {
      "password": "12345678",
      "confidence": 8,
      "reasoning": "Based on rule mentioning last 4 digits of card number"
    }
  ]
}

RESPOND ONLY WITH THE JSON, NO OTHER TEXT.
`, req.Context.Bank,
		strings.Join(req.Context.AccountFragments, ", "),
		strings.Join(req.Context.CardFragments, ", "),
		strings.Join(firstN(req.Context.Dates, 5), ", "))

	return sb.String()
}

// llmPasswordList mirrors the JSON object the prompt asks the model to emit
type llmPasswordList struct {
	Passwords []struct {
		Password   string  `json:"password"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	} `json:"passwords"`
}

// ParseLLMResponse extracts password candidates from free-form LLM output.
// The response is expected, but not guaranteed, to contain a JSON object of
// the form {"passwords":[{"password","confidence","reasoning"},...]}. Any
// malformed input degrades to an empty result rather than an error
func ParseLLMResponse(raw string) []PasswordCandidate {
	jsonStart := strings.IndexByte(raw, '{')
	jsonEnd := strings.LastIndexByte(raw, '}')
	if jsonStart < 0 || jsonEnd < jsonStart {
		return nil
	}

	var parsed llmPasswordList
	if err := json.Unmarshal([]byte(raw[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil
	}

	var candidates []PasswordCandidate
	for _, p := range parsed.Passwords {
		if p.Password == "" {
			continue
		}
		confidence := p.Confidence
		if confidence < 0 {
			confidence = 0
		} else if confidence > 10 {
			confidence = 10
		}
		candidates = append(candidates, PasswordCandidate{
			Value:      p.Password,
			Confidence: confidence,
			Source:     SourceLLM,
			Reasoning:  p.Reasoning,
		})
	}
	return candidates
}

// rankAndDedupe sorts candidates by descending confidence (stable, so ties
// keep insertion order), removes duplicate values keeping the first
// occurrence, and truncates to limit
func rankAndDedupe(candidates []PasswordCandidate, limit int) []PasswordCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		unique = append(unique, c)
	}

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

func groupFacts(facts []PersonalFact) map[FactCategory][]string {
	grouped := make(map[FactCategory][]string)
	for _, fact := range facts {
		grouped[fact.Category] = append(grouped[fact.Category], fact.Value)
	}
	return grouped
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
