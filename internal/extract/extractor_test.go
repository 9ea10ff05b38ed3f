package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

func newExtractor() *Extractor {
	return New(DefaultConfig(), nil)
}

func entityValues(entities []*model.ExtractedEntity) []string {
	var out []string
	for _, e := range entities {
		out = append(out, e.Value)
	}
	return out
}

func TestExtractPaymentID(t *testing.T) {
	x := newExtractor()

	result := x.Extract("send the fee to ramesh.kumar@ybl today")

	require.Len(t, result[model.EntityPaymentID], 1)
	e := result[model.EntityPaymentID][0]
	assert.Equal(t, "ramesh.kumar@ybl", e.Value)
	assert.Contains(t, e.Variants, "ramesh.kumar@ybl")
	assert.Greater(t, e.Confidence, 0.8, "known provider suffix is a strict match")
}

func TestEmailAddressesAreNotPaymentIDs(t *testing.T) {
	x := newExtractor()

	tests := []string{
		"please email me at john.smith@gmail.com for details",
		"write to support@icici.co.in anytime",
		"my id is lucky.winner99@yahoo.in",
	}
	for _, text := range tests {
		result := x.Extract(text)
		assert.Empty(t, result[model.EntityPaymentID], "email in %q is not a payment handle", text)
	}
}

func TestPaymentIDAtSentenceEnd(t *testing.T) {
	x := newExtractor()

	result := x.Extract("just send it to ramesh@ybl.")

	require.Len(t, result[model.EntityPaymentID], 1)
	assert.Equal(t, "ramesh@ybl", result[model.EntityPaymentID][0].Value)
}

func TestExtractRoutingCodeStrict(t *testing.T) {
	x := newExtractor()

	result := x.Extract("IFSC is SBIN0001234 for the branch")

	require.Len(t, result[model.EntityRoutingCode], 1)
	e := result[model.EntityRoutingCode][0]
	assert.Equal(t, "SBIN0001234", e.Value)
	assert.Greater(t, e.Confidence, 0.8)
}

func TestExtractRoutingCodeLooseCase(t *testing.T) {
	x := newExtractor()

	result := x.Extract("use code hdfc0006543 please")

	require.Len(t, result[model.EntityRoutingCode], 1)
	e := result[model.EntityRoutingCode][0]
	assert.Equal(t, "HDFC0006543", e.Value)
	assert.Contains(t, e.Variants, "hdfc0006543")
	assert.Less(t, e.Confidence, 0.8, "loose match scores below strict")
}

func TestExtractPhoneNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare national", "call me on 9876501234", "9876501234"},
		{"plus country code", "whatsapp +91 98765 01234 now", "9876501234"},
		{"trunk zero", "my number 09876501234", "9876501234"},
		{"separators", "ring 98765-01234", "9876501234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newExtractor()
			result := x.Extract(tt.text)
			require.Len(t, result[model.EntityPhone], 1)
			e := result[model.EntityPhone][0]
			assert.Equal(t, tt.want, e.Value)
			assert.Contains(t, e.Variants, "+91"+tt.want)
		})
	}
}

func TestPhoneNeverClassifiedAsAccount(t *testing.T) {
	x := newExtractor()

	// A 10-digit bare numeric string is a phone candidate and must
	// not also turn up as an account number.
	result := x.Extract("send to 9876501234")

	assert.Len(t, result[model.EntityPhone], 1)
	assert.Empty(t, result[model.EntityAccount])
}

func TestOTPLengthExcludedFromAccounts(t *testing.T) {
	x := newExtractor()

	result := x.Extract("your code is 482913")

	assert.Empty(t, result[model.EntityAccount])
	assert.Empty(t, result[model.EntityPhone])
}

func TestAccountNumber(t *testing.T) {
	x := newExtractor()

	result := x.Extract("deposit into account 304812957364")

	require.Len(t, result[model.EntityAccount], 1)
	e := result[model.EntityAccount][0]
	assert.Equal(t, "304812957364", e.Value)
	assert.Contains(t, e.Variants, "3048 1295 7364")
}

func TestSequentialAndRepeatedExcluded(t *testing.T) {
	x := newExtractor()

	result := x.Extract("try 123456789 or 111111111111 or 121212121212")

	assert.Empty(t, result[model.EntityAccount])
}

func TestExtractURL(t *testing.T) {
	x := newExtractor()

	result := x.Extract("claim at https://prize-claim.example.com/win?id=7 now!")

	require.Len(t, result[model.EntityURL], 1)
	e := result[model.EntityURL][0]
	assert.Equal(t, "https://prize-claim.example.com/win", e.Value)
}

func TestExtractWWWURL(t *testing.T) {
	x := newExtractor()

	result := x.Extract("visit www.lucky-draw.example.net.")

	require.Len(t, result[model.EntityURL], 1)
	assert.Less(t, result[model.EntityURL][0].Confidence, 0.8, "scheme-less URL is a loose match")
}

func TestNumeralRoundTrip(t *testing.T) {
	x := newExtractor()

	ascii := x.Extract("account 304812957364")
	devanagari := x.Extract("account ३०४८१२९५७३६४")

	require.Len(t, ascii[model.EntityAccount], 1)
	require.Len(t, devanagari[model.EntityAccount], 1)
	assert.Equal(t, ascii[model.EntityAccount][0].Value, devanagari[model.EntityAccount][0].Value)
}

func TestExtractIsDeterministic(t *testing.T) {
	x := newExtractor()
	text := "pay ramesh@ybl or acct 304812957364, IFSC SBIN0001234, call 9876501234, https://pay.example.com/x"

	first := x.Extract(text)
	second := x.Extract(text)

	require.Equal(t, len(first), len(second))
	for entityType, entities := range first {
		assert.ElementsMatch(t, entityValues(entities), entityValues(second[entityType]))
		for i, e := range entities {
			assert.Equal(t, e.Confidence, second[entityType][i].Confidence)
		}
	}
}

func TestRedundancyBoostsConfidence(t *testing.T) {
	x := newExtractor()

	once := x.Extract("pay ramesh@ybl")
	twice := x.Extract("pay ramesh@ybl", "I said ramesh@ybl, hurry")

	require.Len(t, once[model.EntityPaymentID], 1)
	require.Len(t, twice[model.EntityPaymentID], 1)
	assert.Greater(t,
		twice[model.EntityPaymentID][0].Confidence,
		once[model.EntityPaymentID][0].Confidence)
	assert.Equal(t, 2, twice[model.EntityPaymentID][0].Observations)
}

func TestOverallConfidence(t *testing.T) {
	intel := model.NewIntelligence()
	assert.Equal(t, 0.0, OverallConfidence(intel), "no entities means zero confidence")

	intel.Merge(&model.ExtractedEntity{
		Type: model.EntityPaymentID, Value: "a@ybl", Confidence: 0.85, Observations: 1,
	})
	withPayment := OverallConfidence(intel)
	assert.InDelta(t, 0.30*0.85, withPayment, 1e-9)

	intel.Merge(&model.ExtractedEntity{
		Type: model.EntityAccount, Value: "304812957364", Confidence: 0.85, Observations: 1,
	})
	assert.Greater(t, OverallConfidence(intel), withPayment)
}

func TestEvidenceScore(t *testing.T) {
	tests := []struct {
		name string
		ev   Evidence
		want float64
	}{
		{"loose only", Evidence{Observations: 1}, 0.50},
		{"strict only", Evidence{StrictMatch: true, Observations: 1}, 0.70},
		{"strict with context", Evidence{StrictMatch: true, ContextValid: true, Observations: 1}, 0.85},
		{"redundancy capped", Evidence{StrictMatch: true, ContextValid: true, Observations: 5}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.ev.Score(), 1e-9)
		})
	}
}

type fakeRecognizer struct {
	spans []Span
	err   error
}

func (f fakeRecognizer) Entities(_ context.Context, _ string) ([]Span, error) {
	return f.spans, f.err
}

func TestExtractWithNERWidensRecall(t *testing.T) {
	ner := fakeRecognizer{spans: []Span{{Text: "304812957364", Label: "CARDINAL"}}}
	x := New(DefaultConfig(), ner)

	result := x.ExtractWithNER(context.Background(), "send it to the account I told you")

	require.Len(t, result[model.EntityAccount], 1)
	assert.Equal(t, "304812957364", result[model.EntityAccount][0].Value)
}

func TestExtractWithNERFailureIsNonFatal(t *testing.T) {
	ner := fakeRecognizer{err: errors.New("ner backend down")}
	x := New(DefaultConfig(), ner)

	result := x.ExtractWithNER(context.Background(), "pay ramesh@ybl now")

	require.Len(t, result[model.EntityPaymentID], 1)
}
