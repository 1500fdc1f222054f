package core

import (
	"time"
)

// Email represents a bank-statement email that has already been fetched and
// materialized by an external mail client
type Email struct {
	ID              string
	Sender          string
	Subject         string
	Body            string
	Date            time.Time
	AttachmentPaths []string
}

// FactCategory identifies the kind of personal datum a fact carries
type FactCategory string

// Known personal fact categories
const (
	FactFirstName     FactCategory = "first_name"
	FactLastName      FactCategory = "last_name"
	FactBirthDate     FactCategory = "birth_date"
	FactMobileNumber  FactCategory = "mobile_number"
	FactCardLast4     FactCategory = "card_last_4"
	FactAccountNumber FactCategory = "account_number"
)

// PersonalFact is a user-supplied datum used to derive password candidates.
// Facts are immutable once entered
type PersonalFact struct {
	Category FactCategory
	Value    string
}

// BankID identifies a financial institution
type BankID string

// BankUnknown is the fallback when no bank pattern matches
const BankUnknown BankID = "unknown"

// BankContext holds per-email facts about the financial institution and the
// account/card/date fragments mentioned in the email body. It is recomputed
// for every email and never persisted
type BankContext struct {
	Bank             BankID
	AccountFragments []string
	CardFragments    []string
	Dates            []string
}

// CandidateSource describes where a password candidate came from
type CandidateSource string

// Candidate sources, roughly ordered by how trustworthy they tend to be
const (
	SourceDirectHint    CandidateSource = "direct_hint"
	SourceBirthDate     CandidateSource = "birth_date"
	SourceCardNumber    CandidateSource = "card_number"
	SourceAccountNumber CandidateSource = "account_number"
	SourceEmailDate     CandidateSource = "email_date"
	SourceMobileNumber  CandidateSource = "mobile_number"
	SourceNameCardCombo CandidateSource = "name_card_combo"
	SourceCommonPattern CandidateSource = "common_pattern"
	SourceLLM           CandidateSource = "llm"
)

// PasswordCandidate is a single guess at a document password
type PasswordCandidate struct {
	Value      string
	Confidence float64
	Source     CandidateSource
	Reasoning  string
}

// VerificationResult is the terminal outcome of trying a candidate list
// against an encrypted document. Candidate is nil when the document turned
// out not to be password protected at all
type VerificationResult struct {
	Candidate *PasswordCandidate
	Succeeded bool
	Attempts  int
}

// BatchSummary reports the outcome of a batch run over many emails
type BatchSummary struct {
	Processed int
	Skipped   int
}

// GenerateRequest carries everything the candidate generator needs for one
// email
type GenerateRequest struct {
	Email   *Email
	Hints   []string
	Rules   []string
	Facts   []PersonalFact
	Context BankContext
}
