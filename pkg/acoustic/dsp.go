package acoustic

import "math"

// fft computes an in-place iterative radix-2 Cooley-Tukey FFT. len(x) must be
// a power of two; callers in this package guarantee that by truncating to the
// largest power-of-two prefix.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	// Butterfly passes.
	for size := 2; size <= n; size <<= 1 {
		angle := -2 * math.Pi / float64(size)
		wStep := complex(math.Cos(angle), math.Sin(angle))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			half := size / 2
			for k := 0; k < half; k++ {
				even := x[start+k]
				odd := x[start+k+half] * w
				x[start+k] = even + odd
				x[start+k+half] = even - odd
				w *= wStep
			}
		}
	}
}

// magnitudeSpectrum returns the magnitudes of the first n/2 FFT bins for the
// largest power-of-two prefix of samples, capped at maxWindow samples.
func magnitudeSpectrum(samples []float64, maxWindow int) []float64 {
	n := largestPowerOfTwo(min(len(samples), maxWindow))
	if n < 2 {
		return nil
	}
	x := make([]complex128, n)
	for i := 0; i < n; i++ {
		x[i] = complex(samples[i], 0)
	}
	fft(x)

	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = cmplxAbs(x[i])
	}
	return mags
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// largestPowerOfTwo returns the largest power of two <= n, or 0 for n < 1.
func largestPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
