// Package bus implements the CPU-side 16-bit address space: internal
// RAM mirroring, PPU/APU register dispatch, controller ports, the
// OAM-DMA engine, and the cartridge slot.
package bus

import (
	"github.com/nescore/nesbox/internal/apu"
	"github.com/nescore/nesbox/internal/cartridge"
	"github.com/nescore/nesbox/internal/input"
	"github.com/nescore/nesbox/internal/ppu"
)

// CPUCycleCounter reports the running CPU cycle count, used to decide
// whether an OAM-DMA starts on an odd or even cycle (513 vs 514 total).
type CPUCycleCounter interface {
	Cycles() uint64
}

// Bus wires RAM, the PPU and APU register files, both controller ports
// and the cartridge into the flat address space the CPU sees. It also
// implements cpu.StallSource so OAM-DMA's cycle cost folds into the
// instruction that triggered it, and apu.DMCBus so DMC sample playback
// reads real PRG data.
type Bus struct {
	ram [0x0800]uint8

	ppu  *ppu.PPU
	apu  *apu.APU
	cart *cartridge.Cartridge

	controller1 *input.Controller
	controller2 *input.Controller

	cpu CPUCycleCounter

	pendingStall uint16
}

// New constructs a bus wired to the given components. SetCPU must be
// called once the CPU exists, since the CPU itself depends on the bus
// at construction (a cyclic reference resolved by a post-construction
// setter, the same pattern spec.md's design notes call for).
func New(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, c1, c2 *input.Controller) *Bus {
	return &Bus{cart: cart, ppu: p, apu: a, controller1: c1, controller2: c2}
}

// SetCPU supplies the cycle counter OAM-DMA uses to compute its
// odd/even alignment cycle.
func (b *Bus) SetCPU(cpu CPUCycleCounter) {
	b.cpu = cpu
}

// Read services a CPU-bus read per spec.md's memory map.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(addr & 0x2007)
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == 0x4016:
		return b.controller1.Read()
	case addr == 0x4017:
		return b.controller2.Read() | 0x40 // bit 6 open-bus high, per real hardware
	case addr < 0x4018:
		return 0 // write-only APU registers, open bus on read
	case addr < 0x4020:
		return 0 // disabled test-mode registers
	default:
		return b.cart.CPURead(addr)
	}
}

// Write services a CPU-bus write.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(addr&0x2007, value)
	case addr == 0x4014:
		b.startOAMDMA(value)
	case addr == 0x4016:
		strobe := value&0x01 != 0
		b.controller1.Strobe(strobe)
		b.controller2.Strobe(strobe)
	case addr == 0x4017:
		b.apu.WriteRegister(addr, value)
	case addr < 0x4018:
		b.apu.WriteRegister(addr, value)
	case addr < 0x4020:
		// disabled test-mode registers, writes ignored
	default:
		b.cart.CPUWrite(addr, value)
	}
}

// startOAMDMA copies 256 bytes from page<<8 into OAM and schedules the
// CPU stall: 513 cycles normally, 514 when DMA starts on an odd CPU
// cycle (one extra alignment cycle before the first read).
func (b *Bus) startOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMDMAByte(b.Read(base + uint16(i)))
	}

	stall := uint16(513)
	if b.cpu != nil && b.cpu.Cycles()%2 == 1 {
		stall = 514
	}
	b.pendingStall += stall
}

// TakeStall implements cpu.StallSource.
func (b *Bus) TakeStall() uint16 {
	stall := b.pendingStall
	b.pendingStall = 0
	return stall
}
