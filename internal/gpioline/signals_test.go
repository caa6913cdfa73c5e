package gpioline

import "testing"

func TestSignalsStartDeasserted(t *testing.T) {
	hs, dr, cs := &fakePin{}, &fakePin{}, &fakePin{}
	s, err := New(hs, dr, cs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.HandshakeAsserted() || hs.Get() {
		t.Fatal("handshake should start deasserted")
	}
	if s.DataReadyAsserted() || dr.Get() {
		t.Fatal("data_ready should start deasserted")
	}
}

func TestAssertDeassertHandshake(t *testing.T) {
	hs, dr, cs := &fakePin{}, &fakePin{}, &fakePin{}
	s, _ := New(hs, dr, cs)

	s.AssertHandshake()
	if !s.HandshakeAsserted() || !hs.Get() {
		t.Fatal("handshake should be asserted")
	}
	s.DeassertHandshake()
	if s.HandshakeAsserted() || hs.Get() {
		t.Fatal("handshake should be deasserted")
	}
}

func TestWatchCSFiresHandler(t *testing.T) {
	hs, dr, cs := &fakePin{}, &fakePin{}, &fakePin{}
	s, _ := New(hs, dr, cs)

	fired := 0
	cancel, err := s.WatchCS(func() { fired++ })
	if err != nil {
		t.Fatalf("WatchCS: %v", err)
	}
	cs.fire(false)
	cs.fire(true)
	if fired != 2 {
		t.Fatalf("expected 2 fires, got %d", fired)
	}
	cancel()
	cs.fire(false)
	if fired != 2 {
		t.Fatal("handler should not fire after cancel")
	}
}

func TestCSLevelReflectsPin(t *testing.T) {
	hs, dr, cs := &fakePin{}, &fakePin{}, &fakePin{}
	s, _ := New(hs, dr, cs)
	cs.Set(true)
	if !s.CSLevel() {
		t.Fatal("CSLevel should reflect underlying pin")
	}
}
