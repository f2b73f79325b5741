package quiz

import "math/rand/v2"

// Shuffle returns a uniformly permuted copy of options; the input is left
// untouched. A nil r uses the unseeded global source.
func Shuffle(options []string, r *rand.Rand) []string {
	out := make([]string, len(options))
	copy(out, options)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r != nil {
		r.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}
