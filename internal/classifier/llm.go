package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scamshield-ai/honeypot-platform/internal/llm"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

const classifySystem = `You classify short messages for scam likelihood.
Respond with JSON only, no prose:
{"is_scam": bool, "confidence": number 0..1, "category": one of "lottery","authority","investment","phishing","job_offer","unknown"}`

// LLMClassifier scores messages with a model-backed prompt.
type LLMClassifier struct {
	client llm.Client
	model  string
}

// NewLLMClassifier creates a classifier over an LLM client.
func NewLLMClassifier(client llm.Client, modelName string) *LLMClassifier {
	return &LLMClassifier{client: client, model: modelName}
}

// Classify prompts the model and parses its JSON verdict.
func (c *LLMClassifier) Classify(ctx context.Context, text, languageHint string) (Result, error) {
	user := text
	if languageHint != "" {
		user = fmt.Sprintf("[language: %s]\n%s", languageHint, text)
	}

	resp, err := c.client.Complete(ctx, &llm.CompletionRequest{
		Model:     c.model,
		System:    classifySystem,
		MaxTokens: 200,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("classifier completion: %w", err)
	}

	var verdict struct {
		IsScam     bool    `json:"is_scam"`
		Confidence float64 `json:"confidence"`
		Category   string  `json:"category"`
	}
	payload := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		return Result{}, fmt.Errorf("classifier verdict parse: %w", err)
	}
	if verdict.Confidence < 0 {
		verdict.Confidence = 0
	}
	if verdict.Confidence > 1 {
		verdict.Confidence = 1
	}

	return Result{
		IsScam:     verdict.IsScam,
		Confidence: verdict.Confidence,
		Category:   parseCategory(verdict.Category),
	}, nil
}

func parseCategory(s string) model.ScamCategory {
	switch model.ScamCategory(strings.ToLower(strings.TrimSpace(s))) {
	case model.CategoryLottery:
		return model.CategoryLottery
	case model.CategoryAuthority:
		return model.CategoryAuthority
	case model.CategoryInvestment:
		return model.CategoryInvestment
	case model.CategoryPhishing:
		return model.CategoryPhishing
	case model.CategoryJobOffer:
		return model.CategoryJobOffer
	default:
		return model.CategoryUnknown
	}
}

// extractJSON pulls the first JSON object out of a completion that may
// wrap it in markdown fences or prose.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
