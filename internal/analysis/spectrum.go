package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MinSamples is the shortest signal Analyze accepts.
const MinSamples = 8

var ErrTooShort = errors.New("analysis: signal too short")

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// signal. Amplitude[i] is the peak amplitude of the component at Freqs[i] Hz.
type Spectrum struct {
	Freqs     []float64
	Amplitude []float64
}

// Analyze removes the mean from signal and returns its spectrum. dt is the
// sample period in seconds.
func Analyze(signal []float64, dt float64) (*Spectrum, error) {
	n := len(signal)
	if n < MinSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrTooShort, n, MinSamples)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("analysis: sample period must be positive, got %f", dt)
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range signal {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)

	s := &Spectrum{
		Freqs:     make([]float64, len(coeffs)),
		Amplitude: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) / dt
		scale := 2.0 / float64(n)
		if i == 0 || (n%2 == 0 && i == len(coeffs)-1) {
			scale = 1.0 / float64(n)
		}
		s.Amplitude[i] = cmplx.Abs(c) * scale
	}
	return s, nil
}

// Dominant returns the strongest non-DC component.
func (s *Spectrum) Dominant() (freq, amplitude float64) {
	for i := 1; i < len(s.Amplitude); i++ {
		if s.Amplitude[i] > amplitude {
			freq, amplitude = s.Freqs[i], s.Amplitude[i]
		}
	}
	return freq, amplitude
}

// Steering returns right minus left for each sample, the turning part of a
// command pair.
func Steering(left, right []float64) []float64 {
	n := min(len(left), len(right))
	out := make([]float64, n)
	for i := range out {
		out[i] = right[i] - left[i]
	}
	return out
}
