package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of bins 0..n/2 of a Hann-windowed,
// mean-removed signal.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// BinFrequency is the frequency in Hz of spectrum bin k for n samples taken
// every dt seconds.
func BinFrequency(k, n int, dt float64) float64 {
	return float64(k) / (float64(n) * dt)
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin,
// or 0 when the signal is flat or too short.
func DominantFrequency(samples []float64, dt float64) float64 {
	ps := PowerSpectrum(samples)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return BinFrequency(best, len(samples), dt)
}
