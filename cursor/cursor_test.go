package cursor

import "testing"

func TestCurrentAndAdvance(t *testing.T) {
	c := New("ab")

	r, ok := c.Current()
	if !ok || r != 'a' {
		t.Fatalf("Current() = %q, %v, want 'a', true", r, ok)
	}
	c.Advance()

	r, ok = c.Current()
	if !ok || r != 'b' {
		t.Fatalf("Current() = %q, %v, want 'b', true", r, ok)
	}
	c.Advance()

	if _, ok = c.Current(); ok {
		t.Fatalf("Current() at end should report false")
	}
	// Sticky EOF: a second query past the end yields the same result.
	if _, ok = c.Current(); ok {
		t.Fatalf("Current() past end should stay false without advancing")
	}
}

func TestPeek(t *testing.T) {
	c := New("abc")

	if r, ok := c.Peek(0); !ok || r != 'a' {
		t.Fatalf("Peek(0) = %q, %v, want 'a', true", r, ok)
	}
	if r, ok := c.Peek(2); !ok || r != 'c' {
		t.Fatalf("Peek(2) = %q, %v, want 'c', true", r, ok)
	}
	if _, ok := c.Peek(3); ok {
		t.Fatalf("Peek(3) should be past end")
	}
}

func TestRetreat(t *testing.T) {
	c := New("xy")
	c.Advance()
	r, _ := c.Current()
	if r != 'y' {
		t.Fatalf("expected 'y' before retreat")
	}
	c.Retreat()
	r, _ = c.Current()
	if r != 'x' {
		t.Fatalf("Retreat() should step back to 'x', got %q", r)
	}
	c.Retreat()
	r, _ = c.Current()
	if r != 'x' {
		t.Fatalf("Retreat() at start should be a no-op, got %q", r)
	}
}

func TestAdvanceBy(t *testing.T) {
	c := New("hello")
	c.AdvanceBy(3)
	if r, _ := c.Current(); r != 'l' {
		t.Fatalf("AdvanceBy(3) then Current() = %q, want 'l'", r)
	}
	c.AdvanceBy(100)
	if !c.AtEnd() {
		t.Fatalf("AdvanceBy(100) should clamp to end")
	}
}
