// Package acoustic turns a captured voice recording into acoustic descriptors
// and maps those descriptors to a coarse stress/emotional assessment.
//
// The package is purely computational: [Extractor.Extract] reduces an
// [audio.Buffer] to a fixed-size [FeatureVector], and [Classify] maps a
// feature vector to an [Assessment]. Neither performs I/O, and both are safe
// to call concurrently from independent sessions.
package acoustic

import (
	"math"
	"time"

	"github.com/mrezendes/ausculta/pkg/audio"
)

const (
	// NumBands is the number of contiguous spectral bands summarised in a
	// feature vector.
	NumBands = 8

	// DefaultMaxWindow caps the FFT size so extraction cost stays bounded
	// regardless of recording length.
	DefaultMaxWindow = 2048

	// Voiced-speech pitch search range in Hz.
	pitchMinHz = 80
	pitchMaxHz = 400

	// pitchScoreFloor is the minimum normalised autocorrelation score for a
	// lag to count as voiced. Below it the recording is treated as unvoiced.
	pitchScoreFloor = 0.1

	// minDuration is the shortest recording the extractor accepts.
	minDuration = time.Second
)

// FeatureVector is the fixed-size acoustic descriptor derived from one
// recording. Frequencies are in Hz, loudness and zero-crossing rate are
// dimensionless in [0, 1], and band energies are raw spectral magnitudes.
type FeatureVector struct {
	// PitchHz is the estimated fundamental frequency, or 0 for
	// unvoiced/silent input.
	PitchHz float64

	// Loudness is the RMS of all samples.
	Loudness float64

	// SpectralCentroidHz is the magnitude-weighted mean frequency.
	SpectralCentroidHz float64

	// ZeroCrossingRate is the fraction of adjacent sample pairs whose sign
	// differs.
	ZeroCrossingRate float64

	// BandEnergies holds the average spectral magnitude of NumBands equal
	// sub-ranges of the lower half-spectrum.
	BandEnergies [NumBands]float64

	// Duration is the length of the analysed recording. Downstream
	// classification rules (breathing pattern, confidence) depend on it.
	Duration time.Duration
}

// Extractor computes feature vectors from audio buffers. The zero value is
// not usable; create one with [NewExtractor].
type Extractor struct {
	maxWindow int
}

// NewExtractor returns an Extractor with the default FFT window cap.
func NewExtractor() *Extractor {
	return &Extractor{maxWindow: DefaultMaxWindow}
}

// NewExtractorWithWindow returns an Extractor whose FFT window is capped at
// maxWindow samples. Values below 2 fall back to the default. The cap is
// rounded down to a power of two at analysis time.
func NewExtractorWithWindow(maxWindow int) *Extractor {
	if maxWindow < 2 {
		maxWindow = DefaultMaxWindow
	}
	return &Extractor{maxWindow: maxWindow}
}

// Extract reduces buf to a FeatureVector. It is deterministic and has no side
// effects. Buffers shorter than one second are rejected with an
// [*audio.InsufficientDataError]; every other input produces a vector.
func (e *Extractor) Extract(buf audio.Buffer) (FeatureVector, error) {
	samples := buf.Samples()
	rate := buf.SampleRate()

	needed := int(float64(rate) * minDuration.Seconds())
	if len(samples) < needed {
		return FeatureVector{}, &audio.InsufficientDataError{
			Samples:    len(samples),
			Needed:     needed,
			SampleRate: rate,
		}
	}

	fv := FeatureVector{
		PitchHz:          estimatePitch(samples, rate),
		Loudness:         rms(samples),
		ZeroCrossingRate: zeroCrossingRate(samples),
		Duration:         buf.Duration(),
	}

	mags := magnitudeSpectrum(samples, e.maxWindow)
	fv.SpectralCentroidHz = spectralCentroid(mags, rate)
	fv.BandEnergies = bandEnergies(mags)

	return fv, nil
}

// estimatePitch runs a normalised autocorrelation restricted to the
// physiologically plausible voice band (80-400 Hz). It returns the frequency
// of the best-scoring lag, or 0 when no lag clears the voicing floor.
func estimatePitch(samples []float64, rate int) float64 {
	var energy float64
	for _, s := range samples {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	minLag := rate / pitchMaxHz
	maxLag := rate / pitchMinHz
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i+lag < len(samples); i++ {
			sum += samples[i] * samples[i+lag]
		}
		score := sum / energy
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	if bestLag == 0 || bestScore < pitchScoreFloor {
		return 0
	}
	return float64(rate) / float64(bestLag)
}

// rms returns the root-mean-square amplitude of samples.
func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// zeroCrossingRate returns the fraction of adjacent sample pairs whose sign
// differs. A proxy for noisiness and voice roughness.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if samples[i-1]*samples[i] < 0 {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// spectralCentroid returns the magnitude-weighted mean frequency over the
// lower half-spectrum, in Hz.
func spectralCentroid(mags []float64, rate int) float64 {
	if len(mags) == 0 {
		return 0
	}
	window := len(mags) * 2
	binWidth := float64(rate) / float64(window)

	var weighted, total float64
	for i, m := range mags {
		weighted += float64(i) * binWidth * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// bandEnergies splits the lower half-spectrum into NumBands equal contiguous
// bands and averages the magnitude in each.
func bandEnergies(mags []float64) [NumBands]float64 {
	var bands [NumBands]float64
	width := len(mags) / NumBands
	if width == 0 {
		return bands
	}
	for b := 0; b < NumBands; b++ {
		var sum float64
		for i := b * width; i < (b+1)*width; i++ {
			sum += mags[i]
		}
		bands[b] = sum / float64(width)
	}
	return bands
}
