// Package input implements the NES's two controller ports: an 8-bit
// parallel-in/serial-out shift register per pad, latched by a strobe
// write to $4016.
package input

// Button is a single controller button, encoded as its bit position in
// the shift register's natural load order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is one NES/Famicom gamepad: a live button state and the
// shift register $4016/$4017 reads drain one bit at a time from.
type Controller struct {
	buttons       uint8
	shiftRegister uint8
	strobe        bool
}

// New returns a controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton updates the live (not yet latched) state of one button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// Strobe applies the strobe bit from a $4016 write. While held high the
// shift register continuously reloads from the live button state; the
// falling edge freezes the snapshot that subsequent reads shift out.
func (c *Controller) Strobe(high bool) {
	c.strobe = high
	if high {
		c.shiftRegister = c.buttons
	}
}

// Read shifts out the next bit (A, B, Select, Start, Up, Down, Left,
// Right, in that order), then all-ones past the eighth read, matching
// the real pad's open-collector output.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}
	bit := c.shiftRegister & 0x01
	c.shiftRegister = c.shiftRegister>>1 | 0x80
	return bit
}

// Reset clears held buttons and the shift register.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
}
