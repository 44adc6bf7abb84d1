package audio

import (
	"encoding/binary"
	"math"
)

// DefaultFrameSamples is the capture frame size in samples.
const DefaultFrameSamples = 128

// BytesPerSample is the width of one s16le sample on the wire.
const BytesPerSample = 2

// QuantizeSample converts one float32 sample in [-1, 1] to a signed
// 16-bit value. Out-of-range input is clamped. The negative and
// positive half-ranges scale asymmetrically so that -1.0 maps to
// -32768 and +1.0 maps to +32767 exactly.
func QuantizeSample(s float32) int16 {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f < -1 {
		f = -1
	} else if f > 1 {
		f = 1
	}
	if f < 0 {
		return int16(math.Round(f * 32768))
	}
	return int16(math.Round(f * 32767))
}

// DequantizeSample is the inverse of QuantizeSample, used for tests
// and local monitoring. Round-tripping loses at most 1/32768 of full
// scale.
func DequantizeSample(v int16) float32 {
	if v < 0 {
		return float32(float64(v) / 32768)
	}
	return float32(float64(v) / 32767)
}

// Framer slices a float32 sample stream into fixed-size s16le frames.
// Samples that do not fill a whole frame stay buffered until more
// arrive or Flush is called. A Framer is not safe for concurrent use;
// the capture loop is its only caller.
type Framer struct {
	frameSamples int
	pending      []int16
}

// NewFramer creates a Framer producing frames of frameSamples samples.
// Non-positive sizes fall back to the default.
func NewFramer(frameSamples int) *Framer {
	if frameSamples <= 0 {
		frameSamples = DefaultFrameSamples
	}
	return &Framer{
		frameSamples: frameSamples,
		pending:      make([]int16, 0, frameSamples),
	}
}

// Push quantizes a block of samples and returns every complete frame
// now available, in order. Each returned frame is exactly
// frameSamples*2 bytes of little-endian s16 data.
func (f *Framer) Push(samples []float32) [][]byte {
	for _, s := range samples {
		f.pending = append(f.pending, QuantizeSample(s))
	}

	var frames [][]byte
	for len(f.pending) >= f.frameSamples {
		frames = append(frames, encodeS16LE(f.pending[:f.frameSamples]))
		f.pending = f.pending[f.frameSamples:]
	}
	return frames
}

// Flush returns the remaining partial frame, zero-padded to full
// size, or nil if nothing is pending. Called once when capture stops.
func (f *Framer) Flush() []byte {
	if len(f.pending) == 0 {
		return nil
	}
	padded := make([]int16, f.frameSamples)
	copy(padded, f.pending)
	f.pending = f.pending[:0]
	return encodeS16LE(padded)
}

// Pending returns the number of buffered samples awaiting a full frame.
func (f *Framer) Pending() int {
	return len(f.pending)
}

func encodeS16LE(samples []int16) []byte {
	buf := make([]byte, len(samples)*BytesPerSample)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}

// DecodeS16LE decodes little-endian s16 bytes back to samples. A
// trailing odd byte is ignored.
func DecodeS16LE(data []byte) []int16 {
	n := len(data) / BytesPerSample
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// CalculateRMS returns the root mean square level of s16le audio,
// normalized to [0, 1]. Useful for level meters and silence checks.
func CalculateRMS(data []byte) float64 {
	samples := DecodeS16LE(data)
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		f := float64(s) / 32768
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(samples)))
}
