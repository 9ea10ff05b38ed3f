package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		category model.ScamCategory
		want     model.Persona
	}{
		{model.CategoryLottery, model.PersonaEagerWinner},
		{model.CategoryAuthority, model.PersonaFearfulElder},
		{model.CategoryInvestment, model.PersonaGreedyInvestor},
		{model.CategoryPhishing, model.PersonaConfusedSkeptic},
		{model.CategoryJobOffer, model.PersonaConfusedSkeptic},
		{model.CategoryUnknown, model.PersonaConfusedSkeptic},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.category, "en"))
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	first := Select(model.CategoryLottery, "hi")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Select(model.CategoryLottery, "hi"))
	}
}

func TestStrategy(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		turnCount int
		want      model.StrategyPhase
	}{
		{0, model.StrategyBuildRapport},
		{2, model.StrategyBuildRapport},
		{3, model.StrategyStall},
		{7, model.StrategyStall},
		{8, model.StrategyProbe},
		{19, model.StrategyProbe},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Strategy(tt.turnCount, th), "turn %d", tt.turnCount)
	}
}

func TestStrategyNeverRegresses(t *testing.T) {
	th := DefaultThresholds()
	prev := Strategy(0, th)
	for turn := 1; turn < 25; turn++ {
		cur := Strategy(turn, th)
		assert.GreaterOrEqual(t, cur.Compare(prev), 0, "turn %d", turn)
		prev = cur
	}
}
