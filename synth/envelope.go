package synth

import "github.com/jsphweid/hummix/constants"

// linear ramp of n points from a to b, endpoints included
func ramp(a, b float64, i, n int) float64 {
	if n <= 1 {
		return a
	}
	return a + (b-a)*float64(i)/float64(n-1)
}

// gain of sample j in a buffer of n samples with attack a and release r
// samples. A window that does not fit in the buffer is skipped, and the
// release wins where the two overlap.
func envelopeGain(j, n, a, r int) float64 {
	if r > 0 && r < n && j >= n-r {
		return ramp(1, 0, j-(n-r), r)
	}
	if a > 0 && a < n && j < a {
		return ramp(0, 1, j, a)
	}
	return 1
}

func applyEnvelope(wave []float64, attack, release float64) {
	n := len(wave)
	a := int(attack * constants.SampleRate)
	r := int(release * constants.SampleRate)
	for j := range wave {
		wave[j] *= envelopeGain(j, n, a, r)
	}
}
