package audio

import (
	"bytes"
	"testing"
)

func TestEncodeWAVOneSecondOfSilence(t *testing.T) {
	// 48,000 zero samples at 48 kHz must produce exactly 96,044 bytes:
	// 44 header + 96,000 data.
	frame := make([]byte, 48000*BytesPerSample)
	wav, err := EncodeWAV([][]byte{frame}, 48000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(wav) != 96044 {
		t.Fatalf("expected 96044 bytes, got %d", len(wav))
	}

	hdr, payload, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader failed: %v", err)
	}
	if hdr.Subchunk2Size != 96000 {
		t.Errorf("dataSize = %d, want 96000", hdr.Subchunk2Size)
	}
	if hdr.SampleRate != 48000 {
		t.Errorf("sample rate = %d, want 48000", hdr.SampleRate)
	}
	if hdr.NumChannels != 1 || hdr.BitsPerSample != 16 || hdr.AudioFormat != 1 {
		t.Errorf("unexpected format: channels=%d bits=%d fmt=%d",
			hdr.NumChannels, hdr.BitsPerSample, hdr.AudioFormat)
	}
	if len(payload) != 96000 {
		t.Errorf("payload length = %d, want 96000", len(payload))
	}
}

func TestEncodeWAVDeterministic(t *testing.T) {
	frames := [][]byte{{1, 2, 3, 4}, {5, 6}}
	a, err := EncodeWAV(frames, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	b, err := EncodeWAV(frames, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different WAV bytes")
	}
}

func TestEncodeWAVDataSizeMatchesFrames(t *testing.T) {
	frames := [][]byte{
		make([]byte, 256),
		make([]byte, 256),
		make([]byte, 128),
	}
	wav, err := EncodeWAV(frames, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	hdr, payload, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader failed: %v", err)
	}
	if hdr.Subchunk2Size != 640 {
		t.Errorf("dataSize = %d, want 640", hdr.Subchunk2Size)
	}
	if hdr.ChunkSize != 36+640 {
		t.Errorf("chunkSize = %d, want %d", hdr.ChunkSize, 36+640)
	}
	if len(payload) != 640 {
		t.Errorf("payload = %d bytes, want 640", len(payload))
	}
}

func TestEncodeWAVEmptyBatch(t *testing.T) {
	wav, err := EncodeWAV(nil, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(wav) != 44 {
		t.Errorf("empty batch should encode to a bare header, got %d bytes", len(wav))
	}
}

func TestEncodeWAVInvalidSampleRate(t *testing.T) {
	if _, err := EncodeWAV(nil, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := EncodeWAV(nil, -44100); err == nil {
		t.Error("expected error for negative sample rate")
	}
}

func TestDecodeWAVHeaderRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeWAVHeader([]byte("short")); err == nil {
		t.Error("expected error for truncated data")
	}

	garbage := make([]byte, 64)
	if _, _, err := DecodeWAVHeader(garbage); err == nil {
		t.Error("expected error for non-RIFF data")
	}
}

func TestWAVPayloadRoundTrip(t *testing.T) {
	f := NewFramer(4)
	frames := f.Push([]float32{0.25, -0.25, 0.5, -0.5, 1, -1, 0, 0.125})
	wav, err := EncodeWAV(frames, 44100)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	_, payload, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader failed: %v", err)
	}

	var joined []byte
	for _, fr := range frames {
		joined = append(joined, fr...)
	}
	if !bytes.Equal(payload, joined) {
		t.Error("payload does not match concatenated frames")
	}
}
