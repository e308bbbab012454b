package usecase

// Anneal returns the exploration rate for episode under a linear schedule that moves from
// initial to final over the first horizon episodes and stays at final afterwards.
func Anneal(initial, final float64, horizon, episode int) float64 {
	if horizon <= 0 || episode >= horizon {
		return final
	}

	return initial - (float64(episode)/float64(horizon))*(initial-final)
}

// AnnealHorizon is the episode at which exploration stops decaying, truncated toward zero.
func AnnealHorizon(episodes int, fraction float64) int {
	return int(float64(episodes) * fraction)
}
