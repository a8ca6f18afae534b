package transport

import "testing"

type countingCloser struct {
	closes int
}

func (c *countingCloser) Close() error {
	c.closes++
	return nil
}

func TestShutdownTriggerClosesAttached(t *testing.T) {
	sh := NewShutdown()
	if sh.Requested() {
		t.Fatal("new Shutdown already requested")
	}

	// Trigger without an attached socket must not panic.
	sh.Trigger()
	if !sh.Requested() {
		t.Fatal("Requested = false after Trigger")
	}

	c := &countingCloser{}
	sh.Attach(c)
	if c.closes != 1 {
		t.Errorf("Attach after Trigger closed %d times, want 1", c.closes)
	}

	sh.Trigger()
	if c.closes != 2 {
		t.Errorf("second Trigger closed %d times in total, want 2", c.closes)
	}
}

func TestShutdownAttachBeforeTrigger(t *testing.T) {
	sh := NewShutdown()
	c := &countingCloser{}
	sh.Attach(c)
	if c.closes != 0 {
		t.Fatalf("Attach closed the socket early")
	}

	sh.Trigger()
	if c.closes != 1 {
		t.Errorf("Trigger closed %d times, want 1", c.closes)
	}
}
