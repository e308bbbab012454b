package usecase

import (
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// constantAgent always plays the same cell, legal or not.
type constantAgent int

func (that constantAgent) SelectMove(entity.State) (int, error) {
	return int(that), nil
}

type receivedReward struct {
	action int
	value  float64
	before entity.State
}

// recordingLearner plays a script and records everything a trainer tells it.
type recordingLearner struct {
	*agent.ScriptedAgent

	rate    float64
	rates   []float64
	rewards []receivedReward
}

func newRecordingLearner(script ...int) *recordingLearner {
	return &recordingLearner{ScriptedAgent: agent.NewScriptedAgent(script...)}
}

func (that *recordingLearner) Reward(action int, value float64, before, _ entity.State) error {
	that.rewards = append(that.rewards, receivedReward{action: action, value: value, before: before})
	return nil
}

func (that *recordingLearner) SetExplorationRate(rate float64) error {
	that.rate = rate
	that.rates = append(that.rates, rate)
	return nil
}

func (that *recordingLearner) ExplorationRate() float64 {
	return that.rate
}
