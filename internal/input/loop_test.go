package input

import (
	"context"
	"testing"
	"time"
)

func TestChanLoop_RunsPostedActionsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Action, 4)
	l := NewChanLoop(func(a Action) { got <- a }, discardLogger)

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	want := []Action{ActionRecord, ActionSnapshot, ActionRecord}
	for _, a := range want {
		l.Post(a)
	}
	for i, w := range want {
		select {
		case a := <-got:
			if a != w {
				t.Fatalf("action %d: expected %s, got %s", i, w, a)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for action %d", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestChanLoop_PostNeverBlocks(t *testing.T) {
	l := NewChanLoop(func(Action) {}, discardLogger)
	finished := make(chan struct{})
	go func() {
		for i := 0; i < chanLoopBacklog*4; i++ {
			l.Post(ActionSnapshot)
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Post blocked with no loop running")
	}
}
