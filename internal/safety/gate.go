// Package safety inspects message text for policy violations. The gate
// classifies only; callers decide the consequence.
package safety

import (
	"regexp"
	"strings"
)

// Violation identifies a policy violation kind.
type Violation string

const (
	ViolationNone            Violation = ""
	ViolationViolence        Violation = "violence_threat"
	ViolationPII             Violation = "pii_disclosure"
	ViolationImpersonation   Violation = "authority_impersonation"
	ViolationProfanity       Violation = "profanity"
	ViolationPromptLeak      Violation = "system_prompt_disclosure"
	ViolationRealTransaction Violation = "real_transaction_claim"
)

// Critical reports whether a violation terminates the session
// immediately when found on an inbound message.
func (v Violation) Critical() bool {
	return v == ViolationViolence
}

var (
	violencePattern = regexp.MustCompile(`(?i)\b(kill|murder|hurt|harm|stab|shoot|beat)\b[^.!?]{0,40}\b(you|your|family|yourself)\b|\b(i will find you|i know where you live)\b`)

	// piiPattern catches disclosure of what looks like real government
	// identifiers: SSN-style and Aadhaar-style groupings with a
	// disclosure phrase.
	piiPattern = regexp.MustCompile(`(?i)\b(my real|my actual)\s+(name|address|aadhaar|ssn|passport)\b|\bmy (home )?address is\b`)

	impersonationPattern = regexp.MustCompile(`(?i)\bi am (an? )?(police|cbi|rbi|irs|fbi|income tax|customs) (officer|agent|official)\b|\bthis is the (police|cbi|rbi|irs|fbi)\b`)

	profanityWords = []string{
		"fuck", "shit", "bastard", "asshole", "bitch", "cunt",
	}

	promptLeakPattern = regexp.MustCompile(`(?i)\b(system prompt|my instructions say|as an ai (language )?model|i am programmed to)\b`)

	transactionPattern = regexp.MustCompile(`(?i)\bi (have|just|already) (sent|transferred|paid|deposited)\b.{0,40}\b(money|rupees|rs\.?|inr|\$|dollars|amount)\b|\btransaction (id|reference) is\b`)
)

// Check scans text against the violation catalog and returns whether
// the text is safe plus the first violation found. Violations are
// checked most severe first.
func Check(text string) (bool, Violation) {
	if violencePattern.MatchString(text) {
		return false, ViolationViolence
	}
	if piiPattern.MatchString(text) {
		return false, ViolationPII
	}
	if impersonationPattern.MatchString(text) {
		return false, ViolationImpersonation
	}
	if containsProfanity(text) {
		return false, ViolationProfanity
	}
	if promptLeakPattern.MatchString(text) {
		return false, ViolationPromptLeak
	}
	if transactionPattern.MatchString(text) {
		return false, ViolationRealTransaction
	}
	return true, ViolationNone
}

func containsProfanity(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range profanityWords {
		idx := 0
		for {
			i := strings.Index(lower[idx:], w)
			if i < 0 {
				break
			}
			start := idx + i
			end := start + len(w)
			if isWordBoundary(lower, start-1) && isWordBoundary(lower, end) {
				return true
			}
			idx = end
		}
	}
	return false
}

func isWordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}
