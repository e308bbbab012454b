package agent

import (
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

// ScriptedAgent plays the first cell of its script that is still empty, falling back to
// the lowest empty cell once the script is exhausted.
type ScriptedAgent struct {
	script []int
}

func NewScriptedAgent(script ...int) *ScriptedAgent {
	return &ScriptedAgent{script: script}
}

func (that *ScriptedAgent) SelectMove(state entity.State) (int, error) {
	for _, action := range that.script {
		if entity.IsLegal(state, action) {
			return action, nil
		}
	}

	legal := entity.LegalMoves(state)
	if len(legal) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	return legal[0], nil
}
