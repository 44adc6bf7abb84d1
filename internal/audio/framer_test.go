package audio

import (
	"math"
	"testing"
)

func TestQuantizeSampleEndpoints(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"negative full scale", -1.0, -32768},
		{"positive full scale", 1.0, 32767},
		{"zero", 0.0, 0},
		{"clamp below", -2.5, -32768},
		{"clamp above", 1.5, 32767},
		{"half positive", 0.5, 16384},
		{"nan becomes silence", float32(math.NaN()), 0},
		{"positive inf clamped to silence", float32(math.Inf(1)), 0},
		{"negative inf clamped to silence", float32(math.Inf(-1)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeSample(tt.in); got != tt.want {
				t.Errorf("QuantizeSample(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuantizeRoundTripBound(t *testing.T) {
	// Quantization error must stay within one LSB of the negative
	// half-range.
	const bound = 1.0 / 32768
	for i := -100; i <= 100; i++ {
		s := float32(i) / 100
		back := DequantizeSample(QuantizeSample(s))
		if diff := math.Abs(float64(back - s)); diff > bound {
			t.Fatalf("sample %v: round-trip error %v exceeds %v", s, diff, bound)
		}
	}
}

func TestFramerFrameSizing(t *testing.T) {
	f := NewFramer(4)

	frames := f.Push(make([]float32, 10))
	if len(frames) != 2 {
		t.Fatalf("expected 2 complete frames from 10 samples, got %d", len(frames))
	}
	for i, fr := range frames {
		if len(fr) != 4*BytesPerSample {
			t.Errorf("frame %d: expected %d bytes, got %d", i, 4*BytesPerSample, len(fr))
		}
	}
	if f.Pending() != 2 {
		t.Errorf("expected 2 pending samples, got %d", f.Pending())
	}

	// Two more samples complete the third frame.
	frames = f.Push(make([]float32, 2))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after completing the partial, got %d", len(frames))
	}
	if f.Pending() != 0 {
		t.Errorf("expected no pending samples, got %d", f.Pending())
	}
}

func TestFramerPreservesOrder(t *testing.T) {
	f := NewFramer(2)
	frames := f.Push([]float32{0.1, 0.2, 0.3, 0.4})
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}

	first := DecodeS16LE(frames[0])
	second := DecodeS16LE(frames[1])
	if first[0] >= first[1] || second[0] >= second[1] {
		t.Error("samples out of order within frames")
	}
	if first[1] >= second[0] {
		t.Error("frames out of order")
	}
}

func TestFramerFlushPadsPartialFrame(t *testing.T) {
	f := NewFramer(4)
	f.Push([]float32{0.5})

	frame := f.Flush()
	if frame == nil {
		t.Fatal("expected a padded frame from Flush")
	}
	if len(frame) != 4*BytesPerSample {
		t.Fatalf("expected full frame size %d, got %d", 4*BytesPerSample, len(frame))
	}
	samples := DecodeS16LE(frame)
	if samples[0] == 0 {
		t.Error("first sample lost in flush")
	}
	for i := 1; i < len(samples); i++ {
		if samples[i] != 0 {
			t.Errorf("padding sample %d not zero: %d", i, samples[i])
		}
	}

	if f.Flush() != nil {
		t.Error("second Flush should return nil")
	}
}

func TestCalculateRMS(t *testing.T) {
	if rms := CalculateRMS(nil); rms != 0 {
		t.Errorf("RMS of empty data = %v, want 0", rms)
	}

	silence := make([]byte, 256)
	if rms := CalculateRMS(silence); rms != 0 {
		t.Errorf("RMS of silence = %v, want 0", rms)
	}

	f := NewFramer(64)
	frames := f.Push(fullScaleSquare(64))
	if rms := CalculateRMS(frames[0]); rms < 0.99 {
		t.Errorf("RMS of full-scale square wave = %v, want near 1", rms)
	}
}

func fullScaleSquare(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}
