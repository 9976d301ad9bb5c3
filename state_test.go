package mbt

import (
	"testing"
)

func TestState_Creation(t *testing.T) {
	state := NewState("LoggedIn", map[string]string{"session": "active"})

	if state.ID() != "LoggedIn" {
		t.Errorf("Expected ID 'LoggedIn', got '%s'", state.ID())
	}

	v, ok := state.Prop("session")
	if !ok || v != "active" {
		t.Errorf("Expected session=active, got '%s' (present=%v)", v, ok)
	}

	if _, ok := state.Prop("missing"); ok {
		t.Error("Expected missing property to be absent")
	}
}

func TestState_PropsAreCopied(t *testing.T) {
	props := map[string]string{"color": "red"}
	state := NewState("A", props)

	props["color"] = "green"
	if v, _ := state.Prop("color"); v != "red" {
		t.Errorf("Expected state to keep its own copy of props, got color=%s", v)
	}

	state.Props()["color"] = "blue"
	if v, _ := state.Prop("color"); v != "red" {
		t.Errorf("Expected Props to return a copy, got color=%s", v)
	}
}

func TestState_Equal(t *testing.T) {
	a := NewState("A", map[string]string{"x": "1", "y": "2"})
	same := NewState("A", map[string]string{"y": "2", "x": "1"})
	otherID := NewState("B", map[string]string{"x": "1", "y": "2"})
	otherProps := NewState("A", map[string]string{"x": "1", "y": "3"})

	if !a.Equal(same) {
		t.Error("Expected states with same ID and props to be equal")
	}
	if a.Equal(otherID) {
		t.Error("Expected states with different IDs not to be equal")
	}
	if a.Equal(otherProps) {
		t.Error("Expected states with different props not to be equal")
	}
}

func TestState_EqualExcluding(t *testing.T) {
	a := NewState("A", map[string]string{"mode": "idle", "uptime": "12"})
	b := NewState("A", map[string]string{"mode": "idle", "uptime": "99"})

	if a.Equal(b) {
		t.Error("Expected differing uptime to break strict equality")
	}
	excluded := map[string]struct{}{"uptime": {}}
	if !a.EqualExcluding(b, excluded) {
		t.Error("Expected states to match once uptime is excluded")
	}

	// Excluded keys must not hide a real difference elsewhere
	c := NewState("A", map[string]string{"mode": "busy", "uptime": "12"})
	if a.EqualExcluding(c, excluded) {
		t.Error("Expected differing mode to still break equality")
	}
}

func TestState_String(t *testing.T) {
	plain := NewState("Idle", nil)
	if plain.String() != "Idle" {
		t.Errorf("Expected 'Idle', got '%s'", plain.String())
	}

	rich := NewState("Idle", map[string]string{"b": "2", "a": "1"})
	if rich.String() != "Idle{a=1, b=2}" {
		t.Errorf("Expected sorted prop rendering, got '%s'", rich.String())
	}
}
