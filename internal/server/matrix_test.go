package server

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestEventDedup(t *testing.T) {
	s := NewMatrixServer(nil, nil, nil, zerolog.Nop())

	if s.isEventSeen("$a") {
		t.Error("Expected $a to be unseen")
	}
	s.markEventSeen("$a")
	if !s.isEventSeen("$a") {
		t.Error("Expected $a to be seen after marking")
	}
	if s.isEventSeen("$b") {
		t.Error("Expected $b to stay unseen")
	}
}
