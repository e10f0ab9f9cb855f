// Package interaction builds the chooser x alternative working tables
// that feed utility computation.
//
// Every discrete-choice model starts by pairing each chooser with its
// candidate alternatives. The Sampler either tiles the full alternative
// set under every chooser (a cross join) or draws a per-chooser subset
// without replacement, then merges the chooser's own attributes onto the
// paired rows so utility expressions can reference both sides.
//
// Usage:
//
//	sampler := interaction.NewSampler(utils.NewRandSource(seed))
//	dataset, err := sampler.Dataset(choosers, alternatives, sampleSize)
//	if err != nil {
//	    return err
//	}
//	// dataset has one row per (chooser, sampled alternative) pair
package interaction
