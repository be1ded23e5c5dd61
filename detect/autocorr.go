package detect

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// below this many multiply-adds the direct sum beats the transform
const directLimit = 1 << 16

// autocorrelate returns, for every lag in [minLag, maxLag], the mean
// product of the overlapping sample pairs. Lags with no overlap are left
// at zero.
func autocorrelate(window []float64, minLag, maxLag int) []float64 {
	if maxLag < minLag {
		return nil
	}
	if len(window)*(maxLag-minLag+1) <= directLimit {
		return autocorrelateDirect(window, minLag, maxLag)
	}
	return autocorrelateFFT(window, minLag, maxLag)
}

func autocorrelateDirect(window []float64, minLag, maxLag int) []float64 {
	n := len(window)
	res := make([]float64, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag && lag < n; lag++ {
		var sum float64
		for i := 0; i+lag < n; i++ {
			sum += window[i] * window[i+lag]
		}
		res[lag-minLag] = sum / float64(n-lag)
	}
	return res
}

// autocorrelateFFT computes the same sums through the power spectrum of
// the zero padded window.
func autocorrelateFFT(window []float64, minLag, maxLag int) []float64 {
	n := len(window)
	size := 1
	for size < 2*n {
		size <<= 1
	}
	padded := make([]float64, size)
	copy(padded, window)

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		re, im := real(c), imag(c)
		spectrum[i] = complex(re*re+im*im, 0)
	}
	raw := fft.IFFT(spectrum)

	res := make([]float64, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag && lag < n; lag++ {
		res[lag-minLag] = real(raw[lag]) / float64(n-lag)
	}
	return res
}

func rms(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(window)))
}
