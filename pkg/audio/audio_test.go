package audio_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mrezendes/ausculta/pkg/audio"
)

func TestNew_CopiesSamples(t *testing.T) {
	t.Parallel()

	samples := []float64{0.1, -0.2, 0.3}
	buf, err := audio.New(samples, 16000)
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}

	samples[0] = 0.9
	if got := buf.Samples()[0]; got != 0.1 {
		t.Errorf("Samples()[0]=%v after caller mutation, want 0.1", got)
	}
}

func TestNew_EmptyReturnsInsufficientData(t *testing.T) {
	t.Parallel()

	_, err := audio.New(nil, 16000)
	var ide *audio.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("New(nil): err=%v, want *InsufficientDataError", err)
	}
}

func TestNew_RejectsBadSampleRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{0, -8000} {
		if _, err := audio.New([]float64{0.1}, rate); err == nil {
			t.Errorf("New(rate=%d): err=nil, want error", rate)
		}
	}
}

func TestFromPCM16_DecodesAndNormalises(t *testing.T) {
	t.Parallel()

	// Three samples: max positive, zero, max negative.
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:], uint16(int16(math.MaxInt16)))
	binary.LittleEndian.PutUint16(data[2:], 0)
	minSample := int16(math.MinInt16)
	binary.LittleEndian.PutUint16(data[4:], uint16(minSample))

	buf, err := audio.FromPCM16(data, 8000)
	if err != nil {
		t.Fatalf("FromPCM16: unexpected error: %v", err)
	}
	got := buf.Samples()
	if len(got) != 3 {
		t.Fatalf("len(Samples())=%d, want 3", len(got))
	}
	if got[0] != 1.0 {
		t.Errorf("sample 0 = %v, want 1.0", got[0])
	}
	if got[1] != 0.0 {
		t.Errorf("sample 1 = %v, want 0.0", got[1])
	}
	if got[2] > -1.0 || got[2] < -1.001 {
		t.Errorf("sample 2 = %v, want ~-1.0", got[2])
	}
}

func TestFromPCM16_RejectsOddByteCount(t *testing.T) {
	t.Parallel()

	if _, err := audio.FromPCM16([]byte{0x01, 0x02, 0x03}, 16000); err == nil {
		t.Error("FromPCM16(3 bytes): err=nil, want error")
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	buf, err := audio.New(make([]float64, 8000), 16000)
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	if got, want := buf.Duration(), 500*time.Millisecond; got != want {
		t.Errorf("Duration()=%v, want %v", got, want)
	}
}
