package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s1", 2)
	for _, msg := range []string{"one", "two", "three"} {
		s.Send(LobbyErrorEvent{Message: msg})
	}

	for _, want := range []string{"two", "three"} {
		evt := (<-s.Events()).(LobbyErrorEvent)
		if evt.Message != want {
			t.Errorf("got %q, expected %q", evt.Message, want)
		}
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("s1", 0)
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done() not closed")
	}

	s.Send(LobbyCreatedEvent{Code: "ABCDEF"})
	if len(s.Events()) != 0 {
		t.Error("events sent after Close should be discarded")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	r.Register(NewChannelSession("a", 1))
	r.Register(NewChannelSession("b", 1))

	if r.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", r.Count())
	}
	if s, ok := r.Get("a"); !ok || s.ID() != "a" {
		t.Errorf("Get(a) = %v, %v", s, ok)
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("session still registered after Unregister")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", r.Count())
	}
}
