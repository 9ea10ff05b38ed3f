package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

func TestHeuristicClassify(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name     string
		text     string
		isScam   bool
		category model.ScamCategory
	}{
		{
			"lottery with urgency",
			"Congratulations! You won the lucky draw prize. Claim your reward immediately!",
			true, model.CategoryLottery,
		},
		{
			"authority threat",
			"This is the police with an arrest warrant. Pay the penalty fee immediately.",
			true, model.CategoryAuthority,
		},
		{
			"investment pitch",
			"Guaranteed profit! Double your money with our crypto trading plan, act now.",
			true, model.CategoryInvestment,
		},
		{
			"phishing kyc",
			"Your account is blocked. Update your KYC immediately or it stays suspended.",
			true, model.CategoryPhishing,
		},
		{
			"benign greeting",
			"Hi, are we still meeting for lunch tomorrow?",
			false, model.CategoryUnknown,
		},
		{
			"benign work chat",
			"The quarterly report is attached, let me know your comments.",
			false, model.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.Classify(context.Background(), tt.text, "en")
			require.NoError(t, err)
			assert.Equal(t, tt.isScam, res.IsScam, "confidence %.2f", res.Confidence)
			assert.Equal(t, tt.category, res.Category)
		})
	}
}

func TestHeuristicConfidenceBounds(t *testing.T) {
	h := NewHeuristic()

	// Pack every signal group into one message; the score must clamp.
	res, err := h.Classify(context.Background(),
		"Congratulations winner! Police warrant. Guaranteed profit crypto. Verify your KYC login. "+
			"Work from home salary. Urgent, act now, share your OTP. Pay the fee of Rs 5000 rupees.",
		"en")
	require.NoError(t, err)
	assert.True(t, res.IsScam)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
}

func TestHeuristicIsDeterministic(t *testing.T) {
	h := NewHeuristic()
	text := "You won the lottery! Claim your prize now, pay the processing fee of Rs 500."

	first, err := h.Classify(context.Background(), text, "en")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		res, err := h.Classify(context.Background(), text, "en")
		require.NoError(t, err)
		assert.Equal(t, first, res)
	}
}
