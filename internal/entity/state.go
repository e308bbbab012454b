package entity

// State is a player-relative encoding of the board in row-major order:
// +1 for the requesting player's marks, -1 for the opponent's, 0 for empty cells.
type State []float64

// LegalMoves returns the indices of zero cells in state, in row-major order.
// It agrees with Board.LegalMoves for any encoding of that board.
func LegalMoves(state State) []int {
	moves := make([]int, 0, BoardCells)
	for i := 0; i < len(state) && i < BoardCells; i++ {
		if state[i] == 0 {
			moves = append(moves, i)
		}
	}

	return moves
}

// IsLegal reports whether action addresses an empty cell of state.
func IsLegal(state State, action int) bool {
	return action >= 0 && action < len(state) && action < BoardCells && state[action] == 0
}

// Clone returns an independent copy.
func (that State) Clone() State {
	out := make(State, len(that))
	copy(out, that)
	return out
}

// Step is one move of an episode, with both encodings taken from the mover's side.
type Step struct {
	Player Mark
	Before State
	Action int
	After  State
}

// Trajectory is the ordered list of moves of a single episode.
type Trajectory []Step

// LastBy returns the most recent step made by player.
func (that Trajectory) LastBy(player Mark) (Step, bool) {
	for i := len(that) - 1; i >= 0; i-- {
		if that[i].Player == player {
			return that[i], true
		}
	}

	return Step{}, false
}
