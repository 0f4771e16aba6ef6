package tui

import "testing"

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	r.Register("a", "ada")
	r.Register("b", "bob")

	if r.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2", r.Count())
	}

	r.SetMode("a", "bubbles")
	r.SetMode("missing", "bubbles")

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d sessions, expected 2", len(list))
	}
	for _, s := range list {
		if s.ID == "a" && s.Mode != "bubbles" {
			t.Errorf("session a mode = %q, expected %q", s.Mode, "bubbles")
		}
		if s.ID == "b" && s.Mode != "" {
			t.Errorf("session b mode = %q, expected empty", s.Mode)
		}
	}

	r.Unregister("a")
	r.Unregister("missing")
	if r.Count() != 1 {
		t.Errorf("Count() after Unregister = %d, expected 1", r.Count())
	}
}
