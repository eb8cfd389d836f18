package events_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("1")
	ch2 := evts.Acquire("2")

	if evts.Acquire("1") != ch1 {
		t.Fatal("expected the same channel for the same id")
	}

	evts.Send("state: MineBlock: MINING: started")

	if msg := <-ch1; msg != "state: MineBlock: MINING: started" {
		t.Fatalf("unexpected message on channel 1: %s", msg)
	}
	if msg := <-ch2; msg != "state: MineBlock: MINING: started" {
		t.Fatalf("unexpected message on channel 2: %s", msg)
	}

	if err := evts.Release("1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, open := <-ch1; open {
		t.Fatal("expected channel 1 to be closed")
	}
	if err := evts.Release("1"); err == nil {
		t.Fatal("expected an error releasing an unknown id")
	}

	evts.Shutdown()
	if evts.Count() != 0 {
		t.Fatalf("expected no receivers after shutdown, got %d", evts.Count())
	}
	if _, open := <-ch2; open {
		t.Fatal("expected channel 2 to be closed")
	}
}

func Test_SendDoesNotBlock(t *testing.T) {
	evts := events.New()
	evts.Acquire("slow")

	for i := 0; i < 1000; i++ {
		evts.Send("event")
	}
}
