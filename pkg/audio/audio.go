// Package audio defines the immutable audio buffer consumed by the acoustic
// analysis pipeline.
//
// A [Buffer] is created once per capture — typically from raw PCM handed over
// by the capture layer — and passed by value through the pipeline. Samples
// are normalised mono float64 in [-1, 1]; stereo handling, resampling, and
// device negotiation belong to the capture layer, not to this package.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Buffer is an immutable sequence of mono audio samples with a known sample
// rate. The zero value is an empty buffer.
type Buffer struct {
	samples    []float64
	sampleRate int
}

// New creates a Buffer from the given samples. The slice is copied so later
// mutation by the caller cannot alter the buffer. Returns an
// [*InsufficientDataError] for an empty sample slice and an error for a
// non-positive sample rate.
func New(samples []float64, sampleRate int) (Buffer, error) {
	if sampleRate <= 0 {
		return Buffer{}, fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	if len(samples) == 0 {
		return Buffer{}, &InsufficientDataError{Samples: 0, SampleRate: sampleRate}
	}
	s := make([]float64, len(samples))
	copy(s, samples)
	return Buffer{samples: s, sampleRate: sampleRate}, nil
}

// FromPCM16 decodes little-endian signed 16-bit mono PCM into a Buffer,
// normalising samples to [-1, 1]. An odd byte count means the payload is not
// valid int16 PCM and is rejected.
func FromPCM16(data []byte, sampleRate int) (Buffer, error) {
	if len(data)%2 != 0 {
		return Buffer{}, fmt.Errorf("audio: odd byte count %d in PCM16 data", len(data))
	}
	if sampleRate <= 0 {
		return Buffer{}, fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	if len(data) == 0 {
		return Buffer{}, &InsufficientDataError{Samples: 0, SampleRate: sampleRate}
	}
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float64(v) / math.MaxInt16
	}
	return Buffer{samples: samples, sampleRate: sampleRate}, nil
}

// Samples returns the underlying sample slice. Callers must treat the
// returned slice as read-only.
func (b Buffer) Samples() []float64 { return b.samples }

// SampleRate returns the sample rate in Hz.
func (b Buffer) SampleRate() int { return b.sampleRate }

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.samples) }

// Duration returns the buffer length as wall-clock time.
func (b Buffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.samples)) / float64(b.sampleRate) * float64(time.Second))
}

// InsufficientDataError reports a buffer too short (or empty) for analysis.
// The call that produced it is unrecoverable, but the caller may re-capture
// and retry.
type InsufficientDataError struct {
	// Samples is the number of samples that were available.
	Samples int

	// Needed is the minimum number of samples required, when known.
	Needed int

	// SampleRate is the buffer's sample rate in Hz.
	SampleRate int
}

func (e *InsufficientDataError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("audio: insufficient data: %d samples, need at least %d at %d Hz",
			e.Samples, e.Needed, e.SampleRate)
	}
	return fmt.Sprintf("audio: insufficient data: empty buffer at %d Hz", e.SampleRate)
}
