package playback

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecPlayer renders audio by piping it to an external player command
// such as "mpg123 -q -". One process per item; the item is done when
// the process exits.
type ExecPlayer struct {
	command string
}

// NewExecPlayer creates a player for the given command line.
func NewExecPlayer(command string) (*ExecPlayer, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("player command is empty")
	}
	return &ExecPlayer{command: command}, nil
}

// Play spawns the player process and feeds it the audio on stdin.
// Spawn and exit failures are reported to the caller, which skips the
// item.
func (p *ExecPlayer) Play(ctx context.Context, audio []byte) error {
	parts := strings.Fields(p.command)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(audio)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %q failed: %w", parts[0], err)
	}
	return nil
}
