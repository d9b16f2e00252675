package viewer

import "time"

// frameBudget returns the time one frame may take at the given rate, or 0
// when pacing is off.
func frameBudget(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// sleepFor returns how long to wait after a frame that took elapsed.
func sleepFor(budget, elapsed time.Duration) time.Duration {
	if budget <= 0 || elapsed >= budget {
		return 0
	}
	return budget - elapsed
}
