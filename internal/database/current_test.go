package database

import "testing"

func TestCurrent_EmptyRejectsAccess(t *testing.T) {
	c := NewCurrent(nil)

	if _, err := c.Manager(); err != ErrNoStore {
		t.Errorf("Manager() on empty handle error = %v, want ErrNoStore", err)
	}
}

func TestCurrent_SwapReturnsPrevious(t *testing.T) {
	first := testManager(t, "first")
	second := testManager(t, "second")

	c := NewCurrent(first)

	got, err := c.Manager()
	if err != nil || got != first {
		t.Fatalf("Manager() = %v, %v; want first manager", got, err)
	}

	prev := c.Swap(second)
	if prev != first {
		t.Errorf("Swap() returned %v, want the first manager", prev)
	}
	got, err = c.Manager()
	if err != nil || got != second {
		t.Errorf("Manager() after swap = %v, %v; want second manager", got, err)
	}

	cleared := c.Clear()
	if cleared != second {
		t.Errorf("Clear() returned %v, want the second manager", cleared)
	}
	if _, err := c.Manager(); err != ErrNoStore {
		t.Errorf("Manager() after Clear error = %v, want ErrNoStore", err)
	}
}
