package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeaderSize is the canonical RIFF/WAVE header size produced here.
const wavHeaderSize = 44

// WAVHeader is the canonical 44-byte RIFF/WAVE header for PCM audio.
// All multi-byte fields are little-endian.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + dataSize
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 = PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16 // NumChannels * BitsPerSample/8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // dataSize
}

// EncodeWAV wraps ordered s16le PCM frames in a RIFF/WAVE container:
// mono, 16-bit, at the given sample rate. The output is a pure
// function of its inputs.
func EncodeWAV(frames [][]byte, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	dataSize := 0
	for _, f := range frames {
		dataSize += len(f)
	}

	hdr := WAVHeader{
		ChunkSize:     uint32(36 + dataSize),
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 1 * BytesPerSample),
		BlockAlign:    uint16(1 * BytesPerSample),
		BitsPerSample: 16,
		Subchunk2Size: uint32(dataSize),
	}
	copy(hdr.ChunkID[:], "RIFF")
	copy(hdr.Format[:], "WAVE")
	copy(hdr.Subchunk1ID[:], "fmt ")
	copy(hdr.Subchunk2ID[:], "data")

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	for _, f := range frames {
		buf.Write(f)
	}
	return buf.Bytes(), nil
}

// DecodeWAVHeader parses the leading 44-byte header and returns it
// together with the PCM payload. Used by tests and the pipeline's
// sanity checks.
func DecodeWAVHeader(data []byte) (*WAVHeader, []byte, error) {
	if len(data) < wavHeaderSize {
		return nil, nil, fmt.Errorf("WAV data too short: %d bytes", len(data))
	}
	var hdr WAVHeader
	if err := binary.Read(bytes.NewReader(data[:wavHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" {
		return nil, nil, fmt.Errorf("not a RIFF/WAVE file")
	}
	if hdr.AudioFormat != 1 {
		return nil, nil, fmt.Errorf("unsupported audio format: %d", hdr.AudioFormat)
	}
	payload := data[wavHeaderSize:]
	if int(hdr.Subchunk2Size) > len(payload) {
		return nil, nil, fmt.Errorf("WAV data truncated: header claims %d bytes, have %d",
			hdr.Subchunk2Size, len(payload))
	}
	return &hdr, payload[:hdr.Subchunk2Size], nil
}
