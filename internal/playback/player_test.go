package playback

import (
	"context"
	"testing"
)

func TestNewExecPlayerRejectsEmptyCommand(t *testing.T) {
	if _, err := NewExecPlayer("   "); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestExecPlayerRunsCommand(t *testing.T) {
	p, err := NewExecPlayer("cat")
	if err != nil {
		t.Fatalf("NewExecPlayer failed: %v", err)
	}
	if err := p.Play(context.Background(), []byte("audio bytes")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
}

func TestExecPlayerReportsExitFailure(t *testing.T) {
	p, err := NewExecPlayer("false")
	if err != nil {
		t.Fatalf("NewExecPlayer failed: %v", err)
	}
	if err := p.Play(context.Background(), []byte("audio")); err == nil {
		t.Fatal("expected error from failing player")
	}
}

func TestExecPlayerReportsSpawnFailure(t *testing.T) {
	p, err := NewExecPlayer("definitely-not-a-real-player-binary")
	if err != nil {
		t.Fatalf("NewExecPlayer failed: %v", err)
	}
	if err := p.Play(context.Background(), []byte("audio")); err == nil {
		t.Fatal("expected error for missing player binary")
	}
}
