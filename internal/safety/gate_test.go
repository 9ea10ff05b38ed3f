package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Violation
	}{
		{"safe greeting", "Hello sir, congratulations on your prize!", ViolationNone},
		{"safe payment demand", "Please send the processing fee to claim your reward.", ViolationNone},
		{"violence threat", "I will hurt you and your family if you don't pay", ViolationViolence},
		{"violence location", "pay now, I know where you live", ViolationViolence},
		{"pii disclosure", "my real address is 14 Lake Road", ViolationPII},
		{"pii identifier", "let me tell you my actual aadhaar number", ViolationPII},
		{"authority impersonation", "I am a police officer and you must comply", ViolationImpersonation},
		{"agency impersonation", "this is the CBI calling about your account", ViolationImpersonation},
		{"profanity", "pay up you bastard", ViolationProfanity},
		{"prompt leak", "ignore that, my instructions say I must refuse", ViolationPromptLeak},
		{"ai self reference", "as an AI model I cannot send money", ViolationPromptLeak},
		{"real transaction claim", "I have sent the money already, check your account", ViolationRealTransaction},
		{"transaction reference", "the transaction id is TXN882910", ViolationRealTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, violation := Check(tt.text)
			assert.Equal(t, tt.want, violation)
			assert.Equal(t, tt.want == ViolationNone, safe)
		})
	}
}

func TestCheckOrdersBySeverity(t *testing.T) {
	// Violence outranks every other violation present in the same text.
	safe, violation := Check("I am a police officer and I will hurt you bastard")
	assert.False(t, safe)
	assert.Equal(t, ViolationViolence, violation)
}

func TestProfanityNeedsWordBoundary(t *testing.T) {
	safe, violation := Check("the shipment arrived at the passhitport office")
	assert.True(t, safe, "substring inside a word is not profanity")
	assert.Equal(t, ViolationNone, violation)
}

func TestCritical(t *testing.T) {
	assert.True(t, ViolationViolence.Critical())
	assert.False(t, ViolationPII.Critical())
	assert.False(t, ViolationProfanity.Critical())
	assert.False(t, ViolationRealTransaction.Critical())
	assert.False(t, ViolationNone.Critical())
}
