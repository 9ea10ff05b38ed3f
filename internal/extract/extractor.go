// Package extract turns raw message text into validated,
// confidence-scored intelligence entities.
package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// Config holds the locale-specific extraction parameters.
type Config struct {
	// PhoneDigits is the national phone number length.
	PhoneDigits int
	// PhonePrefix is the country calling code without the plus sign.
	PhonePrefix string
	// MinAccountDigits excludes OTP-length numeric strings from
	// account candidates.
	MinAccountDigits int
	MaxAccountDigits int
}

// DefaultConfig targets the Indian payment system (UPI, IFSC, +91).
func DefaultConfig() Config {
	return Config{
		PhoneDigits:      10,
		PhonePrefix:      "91",
		MinAccountDigits: 9,
		MaxAccountDigits: 18,
	}
}

// Span is a labeled region returned by a general-purpose NER pass.
type Span struct {
	Text  string
	Label string
}

// Recognizer is the optional external NER collaborator used to widen
// recall for numeric and monetary mentions.
type Recognizer interface {
	Entities(ctx context.Context, text string) ([]Span, error)
}

// Extractor scans text for payment identifiers, account numbers,
// routing codes, phone numbers and URLs. Extraction is deterministic:
// the same input always yields the same entities and scores.
type Extractor struct {
	cfg Config
	ner Recognizer
}

// New creates an extractor. ner may be nil.
func New(cfg Config, ner Recognizer) *Extractor {
	return &Extractor{cfg: cfg, ner: ner}
}

var (
	// paymentPattern matches local-part@provider handles. Provider
	// suffixes carry no dot, which separates them from email domains.
	paymentPattern = regexp.MustCompile(`\b[a-zA-Z0-9][a-zA-Z0-9._-]{1,254}@[a-zA-Z]{2,64}\b`)

	// upiProviders is the strict provider-suffix allowlist.
	upiProviders = map[string]bool{
		"upi": true, "ybl": true, "ibl": true, "axl": true, "apl": true,
		"paytm": true, "okaxis": true, "okhdfcbank": true, "okicici": true,
		"oksbi": true, "sbi": true, "axisbank": true, "icici": true,
		"hdfcbank": true, "kotak": true, "yesbank": true, "freecharge": true,
		"airtel": true, "jio": true, "fbl": true, "pingpay": true,
	}

	// routingStrict: four letters, a zero in the fixed fifth position,
	// six alphanumerics (IFSC shape).
	routingStrict = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	routingLoose  = regexp.MustCompile(`\b[A-Za-z]{4}0[A-Za-z0-9]{6}\b`)

	// numberRun matches digit sequences allowing common separators,
	// covering phone numbers and account numbers alike.
	numberRun = regexp.MustCompile(`\+?\d(?:[\d\s.-]{6,24}\d|\d{5,23})`)

	urlPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"']+`)
)

// Extract scans one or more texts (typically one text per transcript
// turn) and returns entities keyed by type. Observations count the
// number of texts in which a value appears, which feeds the redundancy
// component of the confidence score.
func (x *Extractor) Extract(texts ...string) map[model.EntityType][]*model.ExtractedEntity {
	acc := newAccumulator()
	for _, text := range texts {
		folded := FoldNumerals(text)
		x.extractPayments(folded, acc)
		x.extractRoutingCodes(folded, acc)
		x.extractNumbers(folded, acc)
		x.extractURLs(folded, acc)
	}
	return acc.finish()
}

// ExtractWithNER runs Extract and, when a recognizer is configured,
// widens recall with numeric and monetary NER spans merged by
// normalized value. Recognizer failure never fails extraction.
func (x *Extractor) ExtractWithNER(ctx context.Context, texts ...string) map[model.EntityType][]*model.ExtractedEntity {
	acc := newAccumulator()
	for _, text := range texts {
		folded := FoldNumerals(text)
		x.extractPayments(folded, acc)
		x.extractRoutingCodes(folded, acc)
		x.extractNumbers(folded, acc)
		x.extractURLs(folded, acc)

		if x.ner == nil {
			continue
		}
		spans, err := x.ner.Entities(ctx, folded)
		if err != nil {
			continue
		}
		for _, span := range spans {
			switch span.Label {
			case "NUMBER", "MONEY", "CARDINAL":
				x.extractNumbers(FoldNumerals(span.Text), acc)
			}
		}
	}
	return acc.finish()
}

func (x *Extractor) extractPayments(text string, acc *accumulator) {
	for _, loc := range paymentPattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		// The suffix must end the host: a following dot and letter means
		// an email domain (john@gmail.com), not a payment handle.
		if loc[1]+1 < len(text) && text[loc[1]] == '.' && isASCIILetter(text[loc[1]+1]) {
			continue
		}
		at := strings.LastIndexByte(raw, '@')
		local, suffix := raw[:at], strings.ToLower(raw[at+1:])
		// A dotted local part with a short suffix is still a handle;
		// an all-numeric local with a known provider is typical UPI.
		strict := upiProviders[suffix]
		if !strict && len(local) < 3 {
			continue
		}
		canonical := strings.ToLower(raw)
		e := &model.ExtractedEntity{
			Type:         model.EntityPaymentID,
			Value:        canonical,
			Variants:     []string{raw, canonical},
			Observations: 1,
		}
		e.Confidence = Evidence{StrictMatch: strict, ContextValid: true, Observations: 1}.Score()
		acc.add(e, strict)
	}
}

func (x *Extractor) extractRoutingCodes(text string, acc *accumulator) {
	seenStrict := make(map[string]bool)
	for _, raw := range routingStrict.FindAllString(text, -1) {
		seenStrict[raw] = true
		e := &model.ExtractedEntity{
			Type:         model.EntityRoutingCode,
			Value:        raw,
			Variants:     []string{raw},
			Observations: 1,
		}
		e.Confidence = Evidence{StrictMatch: true, ContextValid: true, Observations: 1}.Score()
		acc.add(e, true)
	}
	for _, raw := range routingLoose.FindAllString(text, -1) {
		canonical := strings.ToUpper(raw)
		if seenStrict[canonical] {
			continue
		}
		e := &model.ExtractedEntity{
			Type:         model.EntityRoutingCode,
			Value:        canonical,
			Variants:     []string{raw, canonical},
			Observations: 1,
		}
		e.Confidence = Evidence{StrictMatch: false, ContextValid: true, Observations: 1}.Score()
		acc.add(e, false)
	}
}

// extractNumbers classifies bare numeric runs as phone numbers or
// account numbers. Disambiguation: a run matching the phone length is
// a phone, never an account; runs below the account minimum are
// dropped; sequential or repeated-digit runs are dropped as likely
// non-genuine.
func (x *Extractor) extractNumbers(text string, acc *accumulator) {
	for _, raw := range numberRun.FindAllString(text, -1) {
		raw = strings.TrimRight(raw, " .-")
		digits := digitsOnly(raw)
		hadPlus := strings.HasPrefix(raw, "+")

		if national, ok := x.nationalPhone(digits, hadPlus); ok {
			if isSequential(national) || isRepeatedDigits(national) {
				continue
			}
			e := &model.ExtractedEntity{
				Type:  model.EntityPhone,
				Value: national,
				Variants: []string{
					raw,
					national,
					"+" + x.cfg.PhonePrefix + national,
					x.cfg.PhonePrefix + national,
				},
				Observations: 1,
			}
			strict := hadPlus || len(digits) > len(national)
			e.Confidence = Evidence{StrictMatch: strict, ContextValid: true, Observations: 1}.Score()
			acc.add(e, strict)
			continue
		}

		if len(digits) < x.cfg.MinAccountDigits || len(digits) > x.cfg.MaxAccountDigits {
			continue
		}
		if isSequential(digits) || isRepeatedDigits(digits) {
			continue
		}
		e := &model.ExtractedEntity{
			Type:         model.EntityAccount,
			Value:        digits,
			Variants:     []string{raw, digits, groupDigits(digits, 4)},
			Observations: 1,
		}
		strict := len(digits) >= 11 && len(digits) <= 16
		e.Confidence = Evidence{StrictMatch: strict, ContextValid: true, Observations: 1}.Score()
		acc.add(e, strict)
	}
}

// nationalPhone reduces a digit string to the national number when it
// has phone shape: bare national length, prefixed with the country
// code, or with a leading trunk zero.
func (x *Extractor) nationalPhone(digits string, hadPlus bool) (string, bool) {
	n := x.cfg.PhoneDigits
	prefix := x.cfg.PhonePrefix
	switch {
	case len(digits) == n:
		return digits, true
	case len(digits) == n+len(prefix) && strings.HasPrefix(digits, prefix):
		return digits[len(prefix):], true
	case len(digits) == n+1 && strings.HasPrefix(digits, "0") && !hadPlus:
		return digits[1:], true
	}
	return "", false
}

func (x *Extractor) extractURLs(text string, acc *accumulator) {
	for _, raw := range urlPattern.FindAllString(text, -1) {
		raw = strings.TrimRight(raw, ".,;:!?)\"'")
		candidate := raw
		strict := strings.HasPrefix(strings.ToLower(raw), "http")
		if !strict {
			candidate = "http://" + raw
		}
		parsed, err := url.Parse(candidate)
		if err != nil || parsed.Host == "" || !strings.Contains(parsed.Host, ".") {
			continue
		}
		canonical := strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + parsed.EscapedPath()
		e := &model.ExtractedEntity{
			Type:         model.EntityURL,
			Value:        canonical,
			Variants:     []string{raw, canonical},
			Observations: 1,
		}
		e.Confidence = Evidence{StrictMatch: strict, ContextValid: true, Observations: 1}.Score()
		acc.add(e, strict)
	}
}

// accumulator merges within-call duplicates and finalizes redundancy
// scoring once all texts are scanned.
type accumulator struct {
	entities map[model.EntityType]map[string]*entry
}

type entry struct {
	entity *model.ExtractedEntity
	strict bool
}

func newAccumulator() *accumulator {
	return &accumulator{entities: make(map[model.EntityType]map[string]*entry)}
}

func (a *accumulator) add(e *model.ExtractedEntity, strict bool) {
	byValue := a.entities[e.Type]
	if byValue == nil {
		byValue = make(map[string]*entry)
		a.entities[e.Type] = byValue
	}
	existing, ok := byValue[e.Value]
	if !ok {
		byValue[e.Value] = &entry{entity: e, strict: strict}
		return
	}
	for _, v := range e.Variants {
		existing.entity.AddVariant(v)
	}
	existing.entity.Observations++
	if strict {
		existing.strict = true
	}
}

func (a *accumulator) finish() map[model.EntityType][]*model.ExtractedEntity {
	out := make(map[model.EntityType][]*model.ExtractedEntity, len(a.entities))
	for t, byValue := range a.entities {
		for _, en := range byValue {
			en.entity.Confidence = Evidence{
				StrictMatch:  en.strict,
				ContextValid: true,
				Observations: en.entity.Observations,
			}.Score()
			out[t] = append(out[t], en.entity)
		}
	}
	return out
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isSequential reports strictly ascending or descending digit runs
// like 123456789 or 9876543210.
func isSequential(digits string) bool {
	if len(digits) < 4 {
		return false
	}
	asc, desc := true, true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[i-1]+1 {
			asc = false
		}
		if digits[i] != digits[i-1]-1 {
			desc = false
		}
	}
	return asc || desc
}

// isRepeatedDigits reports runs made of at most two distinct digits,
// like 0000000000 or 1212121212.
func isRepeatedDigits(digits string) bool {
	if len(digits) < 4 {
		return false
	}
	distinct := make(map[byte]bool, 10)
	for i := 0; i < len(digits); i++ {
		distinct[digits[i]] = true
	}
	return len(distinct) <= 2
}

func groupDigits(digits string, group int) string {
	var parts []string
	for i := 0; i < len(digits); i += group {
		end := i + group
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}
