package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"
	"sync"
)

// Source produces blocks of raw float32 mono samples. Read blocks
// until samples are available and returns io.EOF when the source
// ends. A failing source is fatal to its session; the controller
// tears everything down.
type Source interface {
	Read() ([]float32, error)
	Close() error
}

// ReaderSource adapts a byte stream of little-endian float32 samples,
// for example a pipe from ffmpeg or stdin.
type ReaderSource struct {
	r         io.Reader
	closer    io.Closer
	blockSize int
	buf       []byte
}

// NewReaderSource wraps r, reading blockSize samples per call. If r
// is also an io.Closer, Close closes it.
func NewReaderSource(r io.Reader, blockSize int) *ReaderSource {
	if blockSize <= 0 {
		blockSize = 1024
	}
	closer, _ := r.(io.Closer)
	return &ReaderSource{
		r:         r,
		closer:    closer,
		blockSize: blockSize,
		buf:       make([]byte, blockSize*4),
	}
}

// Read returns the next block of samples. A short final block is
// returned as-is before io.EOF.
func (s *ReaderSource) Read() ([]float32, error) {
	n, err := io.ReadFull(s.r, s.buf)
	if n == 0 {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}

	n -= n % 4 // whole samples only
	samples := make([]float32, n/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(s.buf[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	if err == io.ErrUnexpectedEOF {
		err = nil // deliver the short block; EOF comes on the next call
	}
	return samples, err
}

// Close closes the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// ExecSource runs an external capture command and reads f32le samples
// from its stdout. The command owns the audio device; this process
// only sees samples.
type ExecSource struct {
	cmd    *exec.Cmd
	src    *ReaderSource
	stdout io.ReadCloser

	mu      sync.Mutex
	stopped bool
}

// NewExecSource starts the capture command. The returned source is
// live immediately.
func NewExecSource(command string, blockSize int) (*ExecSource, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("capture command is empty")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start capture command %q: %w", parts[0], err)
	}

	return &ExecSource{
		cmd:    cmd,
		src:    NewReaderSource(stdout, blockSize),
		stdout: stdout,
	}, nil
}

// Read returns the next block from the capture process.
func (s *ExecSource) Read() ([]float32, error) {
	return s.src.Read()
}

// Close stops the capture process and reaps it. Safe to call more
// than once.
func (s *ExecSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
