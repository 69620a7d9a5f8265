package bus

import (
	"testing"

	"github.com/nescore/nesbox/internal/apu"
	"github.com/nescore/nesbox/internal/cartridge"
	"github.com/nescore/nesbox/internal/input"
	"github.com/nescore/nesbox/internal/ppu"
)

type fakeCycleCounter struct{ cycles uint64 }

func (f *fakeCycleCounter) Cycles() uint64 { return f.cycles }

func minimalNROM() *cartridge.Cartridge {
	raw := make([]byte, 16+16384+8192)
	raw[0], raw[1], raw[2], raw[3] = 'N', 'E', 'S', 0x1A
	raw[4] = 1 // 16 KiB PRG
	raw[5] = 1 // 8 KiB CHR
	cart, err := cartridge.Load(raw)
	if err != nil {
		panic(err)
	}
	return cart
}

func newTestBus() *Bus {
	cart := minimalNROM()
	p := ppu.New(cart, nil)
	a := apu.New(nil, nil, 44100)
	c1, c2 := input.New(), input.New()
	return New(cart, p, a, c1, c2)
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus()
	b.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := b.Read(mirror); got != 0x42 {
			t.Fatalf("RAM mirror at %#04x = %#02x, want 0x42", mirror, got)
		}
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus()
	b.Write(0x200B, 0x10) // OAMADDR via its mirror at 0x2000+0x0B
	b.Write(0x2004, 0x7E) // OAMDATA: write through the canonical address

	b.Write(0x2003, 0x10) // OAMADDR again, canonical address this time
	if got := b.Read(0x2014); got != 0x7E {
		t.Fatalf("OAMDATA via mirror 0x2014 = %#02x, want 0x7E (written through the 0x2003/0x2004 mirror group)", got)
	}
}

func TestOAMDMAStartsOnEvenCycleCosts513(t *testing.T) {
	b := newTestBus()
	cpu := &fakeCycleCounter{cycles: 100}
	b.SetCPU(cpu)

	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}
	b.Write(0x4014, 0x00) // DMA from page 0x00, which aliases RAM [0x0000, 0x0100)

	if got := b.TakeStall(); got != 513 {
		t.Fatalf("OAM-DMA stall starting on an even cycle = %d, want 513", got)
	}
}

func TestOAMDMAStartsOnOddCycleCosts514(t *testing.T) {
	b := newTestBus()
	cpu := &fakeCycleCounter{cycles: 101}
	b.SetCPU(cpu)

	b.Write(0x4014, 0x00)

	if got := b.TakeStall(); got != 514 {
		t.Fatalf("OAM-DMA stall starting on an odd cycle = %d, want 514", got)
	}
}

func TestOAMDMACopiesPageIntoOAM(t *testing.T) {
	b := newTestBus()
	b.SetCPU(&fakeCycleCounter{})

	for i := 0; i < 256; i++ {
		b.ram[0x0200&0x07FF+i] = uint8(i ^ 0xAA)
	}
	b.Write(0x4014, 0x02) // page 2 -> CPU address 0x0200, aliases RAM

	for i := 0; i < 256; i++ {
		want := uint8(i ^ 0xAA)
		b.ppu.WriteRegister(3, uint8(i)) // OAMADDR
		if got := b.ppu.ReadRegister(4); got != want {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, want)
		}
	}
}

func TestTakeStallResetsToZero(t *testing.T) {
	b := newTestBus()
	b.SetCPU(&fakeCycleCounter{})
	b.Write(0x4014, 0x00)
	b.TakeStall()

	if got := b.TakeStall(); got != 0 {
		t.Fatalf("second TakeStall = %d, want 0 (stall already drained)", got)
	}
}

func TestControllerStrobeReachesBothPorts(t *testing.T) {
	b := newTestBus()
	c1, c2 := input.New(), input.New()
	c1.SetButton(input.ButtonA, true)
	c2.SetButton(input.ButtonA, true)
	b.controller1 = c1
	b.controller2 = c2

	b.Write(0x4016, 0x01)
	b.Write(0x4016, 0x00)

	if got := b.Read(0x4016); got&0x01 != 1 {
		t.Fatalf("controller 1 first read = %#02x, want bit0 set (A held)", got)
	}
	if got := b.Read(0x4017); got&0x01 != 1 {
		t.Fatalf("controller 2 first read = %#02x, want bit0 set (A held)", got)
	}
}

func TestCartridgeSRAMRoundTrip(t *testing.T) {
	b := newTestBus()
	b.Write(0x6000, 0x55) // SRAM window
	if got := b.Read(0x6000); got != 0x55 {
		t.Fatalf("SRAM round-trip = %#02x, want 0x55", got)
	}
}

func TestDisabledTestRegistersReadOpenBusZero(t *testing.T) {
	b := newTestBus()
	if got := b.Read(0x4018); got != 0 {
		t.Fatalf("disabled test register read = %#02x, want 0", got)
	}
}
