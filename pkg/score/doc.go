// Package score implements the additive developer reputation model:
// six independently capped contributions summed into a single integer.
// It exposes [Compute], [Snapshot], and [MaxScore].
package score
