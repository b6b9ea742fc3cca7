package safego

import (
	"testing"
	"time"
)

func TestGoWithRecoverSurvivesPanic(t *testing.T) {
	got := make(chan any, 1)
	GoWithRecover(func() { panic("boom") }, func(r any) { got <- r })

	select {
	case r := <-got:
		if r != "boom" {
			t.Errorf("expected recovered value boom, got %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler was not invoked")
	}
}

func TestGoRuns(t *testing.T) {
	done := make(chan struct{})
	Go(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("function did not run")
	}
}
