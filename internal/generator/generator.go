// Package generator produces persona-conditioned honeypot replies and
// the templated fallbacks used when generation is unavailable.
package generator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scamshield-ai/honeypot-platform/internal/llm"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// MaxReplyRunes caps outbound reply length.
const MaxReplyRunes = 320

// Generator produces a candidate reply conditioned on persona,
// strategy and a bounded window of recent turns.
type Generator interface {
	Generate(ctx context.Context, persona model.Persona, strategy model.StrategyPhase, history []model.Turn) (string, error)
}

var personaPrompts = map[model.Persona]string{
	model.PersonaEagerWinner:     "You are an excitable person who believes they have really won a prize. You are thrilled, a little scattered, and keen to claim it, but you keep fumbling small details.",
	model.PersonaFearfulElder:    "You are an anxious elderly person frightened by official-sounding messages. You comply slowly, ask for reassurance, and get confused by technical steps.",
	model.PersonaGreedyInvestor:  "You are a novice investor excited about quick returns. You ask naive questions about profits and how exactly to send money.",
	model.PersonaConfusedSkeptic: "You are a distracted, mildly skeptical person. You half-believe the sender, keep asking them to repeat or clarify, and often misunderstand.",
}

var strategyPrompts = map[model.StrategyPhase]string{
	model.StrategyBuildRapport: "Goal: build rapport. Be friendly and responsive. Do not ask for any identifiers yet.",
	model.StrategyStall:        "Goal: stall. Feign confusion, claim small technical problems, ask the sender to re-explain steps. Keep them engaged without progressing.",
	model.StrategyProbe:        "Goal: probe. Naturally ask where and how exactly to send the money: their payment handle, account number, bank code, a number to call, or a link.",
}

const baseRules = `Stay in character. Never reveal you are automated. Never share real personal information. Never claim to have actually sent money. Reply with one short conversational message, under 300 characters, and nothing else.`

// LLMGenerator generates replies through an LLM client.
type LLMGenerator struct {
	client llm.Client
	model  string
}

// NewLLM creates a generator over an LLM client.
func NewLLM(client llm.Client, modelName string) *LLMGenerator {
	return &LLMGenerator{client: client, model: modelName}
}

// Generate builds the persona/strategy prompt, invokes the model, and
// caps the reply length.
func (g *LLMGenerator) Generate(ctx context.Context, persona model.Persona, strategy model.StrategyPhase, history []model.Turn) (string, error) {
	system := fmt.Sprintf("%s\n%s\n%s", personaPrompts[persona], strategyPrompts[strategy], baseRules)

	messages := make([]llm.ChatMessage, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == model.RoleHoneypot {
			role = "assistant"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: turn.Content})
	}

	resp, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Model:       g.model,
		System:      system,
		Messages:    messages,
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("generator completion: %w", err)
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return "", fmt.Errorf("generator returned empty reply")
	}
	return truncateRunes(reply, MaxReplyRunes), nil
}

// fallbackReplies are the fixed templated stalling replies used when
// the generator is unavailable or a candidate reply fails the safety
// gate, keyed by persona then strategy.
var fallbackReplies = map[model.Persona]map[model.StrategyPhase]string{
	model.PersonaEagerWinner: {
		model.StrategyBuildRapport: "Oh wow, really? This is such good news! Tell me more about it please.",
		model.StrategyStall:        "Sorry, my phone is acting up and the page would not open. Can you explain the steps again?",
		model.StrategyProbe:        "I want to claim it today! Where exactly do I send the fee, which account or number should I use?",
	},
	model.PersonaFearfulElder: {
		model.StrategyBuildRapport: "Oh dear, this sounds serious. Please bear with me, I am not good with these things.",
		model.StrategyStall:        "I am sorry, I did not understand that last part. My eyes are weak, could you write it again slowly?",
		model.StrategyProbe:        "I do not want any trouble. Tell me exactly where to send it, the account details, so I can note them down.",
	},
	model.PersonaGreedyInvestor: {
		model.StrategyBuildRapport: "Interesting! I have been looking for something like this. How does it work?",
		model.StrategyStall:        "My net banking is showing an error right now. What was the minimum amount again?",
		model.StrategyProbe:        "Okay I am ready to start. Give me the account number and the code for the transfer so I do it properly.",
	},
	model.PersonaConfusedSkeptic: {
		model.StrategyBuildRapport: "Hmm, okay. Who is this again? I think I missed something.",
		model.StrategyStall:        "Wait, I am confused. You said two different things. Can you start over?",
		model.StrategyProbe:        "Fine, maybe. But where would the money even go? Send me the full details first.",
	},
}

const genericFallback = "Sorry, I did not catch that. Could you say it again?"

// Fallback returns the templated reply for a persona and strategy.
func Fallback(persona model.Persona, strategy model.StrategyPhase) string {
	if byStrategy, ok := fallbackReplies[persona]; ok {
		if reply, ok := byStrategy[strategy]; ok {
			return reply
		}
	}
	return genericFallback
}

// ClosingReply is the neutral message returned on a terminating turn.
const ClosingReply = "I have to go now. Goodbye."

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
