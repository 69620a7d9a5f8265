package input

import "testing"

func TestReadOrderMatchesButtonLoadOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.SetButton(ButtonLeft, true)

	c.Strobe(true)
	c.Strobe(false)

	want := []uint8{1, 0, 0, 1, 0, 0, 1, 0} // A,B,Select,Start,Up,Down,Left,Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("read %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadPastEighthBitReturnsOnes(t *testing.T) {
	c := New()
	c.Strobe(true)
	c.Strobe(false)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("read past bit 8 = %d, want 1", got)
		}
	}
}

func TestStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Strobe(true)

	if got := c.Read(); got != 1 {
		t.Fatalf("read while strobe high = %d, want 1 (button A state)", got)
	}
	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Fatalf("read while strobe high after releasing A = %d, want 0", got)
	}
}

func TestResetClearsState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Strobe(true)
	c.Strobe(false)
	c.Reset()

	if got := c.Read(); got != 0 {
		t.Fatalf("read after reset = %d, want 0", got)
	}
}
