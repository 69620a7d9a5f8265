// Package ppu implements the Ricoh 2C02: the dot-by-dot scanline state
// machine, background/sprite compositing, VRAM and palette RAM, and the
// CPU-visible $2000-$2007 register file.
package ppu

import "github.com/nescore/nesbox/internal/cartridge"

// CHRBus is the cartridge-facing half of the PPU's address space:
// pattern tables live on the cartridge, and mirroring is a property of
// whatever's plugged into the slot.
type CHRBus interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	Mirroring() cartridge.Mirroring
}

// NMITarget receives the PPU's vblank interrupt line.
type NMITarget interface {
	SetNMI()
}

const (
	width  = 256
	height = 240
)

// PPUCTRL/$2000 bits.
const (
	ctrlNametable     = 0x03
	ctrlVRAMIncrement = 0x04
	ctrlSpritePattern = 0x08
	ctrlBGPattern     = 0x10
	ctrlSpriteSize    = 0x20
	ctrlNMIEnable     = 0x80
)

// PPUMASK/$2001 bits.
const (
	maskGreyscale       = 0x01
	maskShowBGLeft      = 0x02
	maskShowSpritesLeft = 0x04
	maskShowBG          = 0x08
	maskShowSprites     = 0x10
)

// PPU holds architectural and rendering state for one 2C02.
type PPU struct {
	bus       CHRBus
	nmiTarget NMITarget

	ctrl, mask uint8
	oamAddr    uint8

	statusSpriteOverflow bool
	statusSprite0Hit     bool
	statusVBlank         bool

	v, t loopy
	x    uint8 // fine X scroll, 3 bits
	w    bool  // write-toggle latch

	readBuffer uint8

	// vram is sized for four-screen mirroring (4 KiB, one nametable per
	// quadrant); the 2 KiB single/horizontal/vertical mirroring modes
	// only ever address the first half of it.
	vram       [4096]uint8
	paletteRAM [32]uint8
	oam        [256]uint8

	secondaryOAM    [32]uint8 // up to 8 sprites x 4 bytes
	spriteCount     uint8
	spriteIndexes   [8]uint8
	sprite0Selected bool

	scanline int // -1..260
	dot      int // 0..340
	oddFrame bool
	frame    uint64

	framebuffer [width * height]uint32

	// background fetch pipeline: two tiles' worth of pattern bits plus
	// the attribute byte that applies to them, shifted one pixel per dot.
	bgShiftLo, bgShiftHi     uint16
	bgAttrShiftLo, bgAttrShiftHi uint16
	nextNTByte, nextATByte          uint8
	nextPatternLo, nextPatternHi    uint8
}

// New constructs a PPU wired to the cartridge's CHR bus. target
// receives SetNMI calls at the start of vblank when NMI generation is
// enabled in PPUCTRL.
func New(bus CHRBus, target NMITarget) *PPU {
	return &PPU{
		bus:       bus,
		nmiTarget: target,
		scanline:  -1,
		statusVBlank: true,
	}
}

// SetNMITarget supplies the interrupt line vblank NMI is raised on,
// once the cyclic PPU/CPU construction is resolved.
func (p *PPU) SetNMITarget(target NMITarget) {
	p.nmiTarget = target
}

// Reset clears PPUCTRL, PPUMASK, the write latch, the read buffer and
// the odd-frame flag, and moves timing to dot 0 of the pre-render line.
// VRAM, OAM, palette RAM, the status flags and the v/t scroll registers
// keep their values.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.w = false
	p.scanline = -1
	p.dot = 0
	p.oddFrame = false
	p.readBuffer = 0
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

// Tick advances the PPU by one dot (one PPU cycle, a third of a CPU
// cycle) and then performs the work of the dot it lands on. Callers
// drive it three times per CPU cycle.
func (p *PPU) Tick() {
	p.advanceDot()

	if p.scanline == -1 {
		p.tickPrerender()
	} else if p.scanline < 240 {
		p.tickVisible()
	} else if p.scanline == 241 && p.dot == 1 {
		p.statusVBlank = true
		if p.ctrl&ctrlNMIEnable != 0 && p.nmiTarget != nil {
			p.nmiTarget.SetNMI()
		}
	}
}

func (p *PPU) advanceDot() {
	p.dot++
	// Odd-frame cycle skip: dot 340 of the pre-render line is dropped
	// once every other frame when rendering is enabled.
	if p.scanline == -1 && p.dot == 340 && p.oddFrame && p.renderingEnabled() {
		p.dot++
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) tickPrerender() {
	if p.dot == 1 {
		p.statusVBlank = false
		p.statusSprite0Hit = false
		p.statusSpriteOverflow = false
	}
	p.backgroundFetch()
	if p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.v.copyY(p.t)
	}
}

func (p *PPU) tickVisible() {
	if p.dot == 0 && p.renderingEnabled() {
		p.evaluateSprites()
	}
	p.backgroundFetch()
	if p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.dot - 1)
	}
}

// backgroundFetch runs the 8-dot fetch sequence (NT, AT, pattern lo,
// pattern hi) across dots 1-256 and 321-336, shifting the pipeline
// registers every dot, and performs the loopy scroll-address updates
// (incrementX every 8 dots, incrementY at dot 256, copyX at dot 257).
func (p *PPU) backgroundFetch() {
	if !p.renderingEnabled() {
		return
	}

	inFetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if inFetchWindow {
		p.shiftBackgroundRegisters()
		switch p.dot % 8 {
		case 1:
			p.reloadShiftRegisters()
			p.nextNTByte = p.readVRAM(0x2000 | (p.v.data & 0x0FFF))
		case 3:
			p.nextATByte = p.fetchAttribute()
		case 5:
			p.nextPatternLo = p.fetchPatternByte(false)
		case 7:
			p.nextPatternHi = p.fetchPatternByte(true)
		case 0:
			p.v.incrementCoarseXWrap()
		}
	}

	if p.dot == 256 {
		p.v.incrementY()
	}
	if p.dot == 257 {
		p.reloadShiftRegisters()
		p.v.copyX(p.t)
	}
}

func (p *PPU) fetchAttribute() uint8 {
	addr := 0x23C0 | (p.v.data & 0x0C00) | ((p.v.data >> 4) & 0x38) | ((p.v.data >> 2) & 0x07)
	b := p.readVRAM(addr)
	shift := ((p.v.coarseY() & 0x02) << 1) | (p.v.coarseX() & 0x02)
	return (b >> shift) & 0x03
}

func (p *PPU) fetchPatternByte(hi bool) uint8 {
	base := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		base = 0x1000
	}
	fineY := p.v.fineY()
	addr := base + uint16(p.nextNTByte)*16 + fineY
	if hi {
		addr += 8
	}
	return p.bus.PPURead(addr)
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftLo = p.bgShiftLo&0xFF00 | uint16(p.nextPatternLo)
	p.bgShiftHi = p.bgShiftHi&0xFF00 | uint16(p.nextPatternHi)
	var lo, hi uint16
	if p.nextATByte&0x01 != 0 {
		lo = 0x00FF
	}
	if p.nextATByte&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgAttrShiftLo = p.bgAttrShiftLo&0xFF00 | lo
	p.bgAttrShiftHi = p.bgAttrShiftHi&0xFF00 | hi
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.bgAttrShiftLo <<= 1
	p.bgAttrShiftHi <<= 1
}

// FrameBuffer returns the most recently rendered frame as packed
// 0x00RRGGBB values, row-major, 256x240.
func (p *PPU) FrameBuffer() *[width * height]uint32 {
	return &p.framebuffer
}

// FrameCount returns the number of frames completed so far.
func (p *PPU) FrameCount() uint64 {
	return p.frame
}

// State is a point-in-time snapshot for debug accessors.
type State struct {
	Scanline, Dot int
	VBlank        bool
	Ctrl, Mask    uint8
	V, T          uint16
}

// Snapshot returns the PPU's current timing and register state.
func (p *PPU) Snapshot() State {
	return State{
		Scanline: p.scanline,
		Dot:      p.dot,
		VBlank:   p.statusVBlank,
		Ctrl:     p.ctrl,
		Mask:     p.mask,
		V:        p.v.data,
		T:        p.t.data,
	}
}
