package entity

import "time"

// Tally counts game outcomes over a series of episodes.
type Tally struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

// Record adds one finished game, identified by its winner (EmptyCell for a draw).
func (that *Tally) Record(winner Mark) {
	switch winner {
	case PlayerX:
		that.XWins++
	case PlayerO:
		that.OWins++
	default:
		that.Draws++
	}
}

func (that Tally) Total() int {
	return that.XWins + that.OWins + that.Draws
}

// Checkpoint is a progress snapshot taken during training.
type Checkpoint struct {
	Episode         int     `json:"episode"`
	ExplorationRate float64 `json:"exploration_rate"`
	Tally
}

const (
	ModeTrain = "train"
	ModeArena = "arena"
	ModePlay  = "play"
)

// Run is a finished train or arena run as kept in the history store.
type Run struct {
	ID         int64     `json:"id"`
	Mode       string    `json:"mode"`
	Episodes   int       `json:"episodes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Tally
}
