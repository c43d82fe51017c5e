package core

// Adaptive feed-rate controller. A unit-step integrator, deliberately
// not a PID: each ignition-delay sample nudges the step wait by one
// microsecond toward the target delay, so a steady gap makes the wait
// oscillate between two adjacent values instead of settling.
//
// A short ignition delay means the gap is closing faster than debris can
// flush, so the feed slows down (wait grows); a long delay means sparks
// are getting sparse, so the feed speeds up.

// AdaptParams configure the controller.
type AdaptParams struct {
	// TargetUS is the ignition delay the controller steers toward.
	TargetUS uint32

	// MinWaitUS and MaxWaitUS clamp the adjusted wait.
	MinWaitUS uint32
	MaxWaitUS uint32
}

// AdjustWait returns the step wait updated by one ignition-delay sample.
func AdjustWait(p AdaptParams, waitUS, igUS uint32) uint32 {
	if igUS < p.TargetUS {
		if waitUS < p.MaxWaitUS {
			waitUS++
		}
		return waitUS
	}
	if waitUS > p.MinWaitUS {
		waitUS--
	}
	return waitUS
}
