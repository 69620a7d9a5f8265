package ppu

import (
	"testing"

	"github.com/nescore/nesbox/internal/cartridge"
)

type fakeCHRBus struct {
	chr      [0x2000]uint8
	mirror   cartridge.Mirroring
	writable bool
}

func (b *fakeCHRBus) PPURead(addr uint16) uint8 { return b.chr[addr&0x1FFF] }
func (b *fakeCHRBus) PPUWrite(addr uint16, value uint8) {
	if b.writable {
		b.chr[addr&0x1FFF] = value
	}
}
func (b *fakeCHRBus) Mirroring() cartridge.Mirroring { return b.mirror }

type fakeNMITarget struct{ count int }

func (t *fakeNMITarget) SetNMI() { t.count++ }

func newTestPPU() (*PPU, *fakeCHRBus, *fakeNMITarget) {
	bus := &fakeCHRBus{mirror: cartridge.MirrorHorizontal, writable: true}
	target := &fakeNMITarget{}
	return New(bus, target), bus, target
}

func tickN(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func TestPaletteMirrorRoundTrip(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x10)
	p.WriteRegister(7, 0x16)

	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x00)
	p.WriteRegister(7, 0x16)

	if p.paletteRAM[0x10] != 0 {
		t.Fatalf("write to $3F10 should mirror onto $3F00, got paletteRAM[0x10]=%#x", p.paletteRAM[0x10])
	}
	if p.paletteRAM[0x00] != 0x16 {
		t.Fatalf("paletteRAM[0] = %#x, want 0x16", p.paletteRAM[0x00])
	}
}

func TestPPUAddrTwoWriteLatch(t *testing.T) {
	p, bus, _ := newTestPPU()
	bus.chr[0x0000] = 0xAB

	p.WriteRegister(6, 0x00)
	p.WriteRegister(6, 0x00)
	if p.v.data != 0 {
		t.Fatalf("v = %#x, want 0", p.v.data)
	}

	_ = p.ReadRegister(7) // primes the read buffer
	got := p.ReadRegister(7)
	if got != 0xAB {
		t.Fatalf("buffered PPUDATA read = %#x, want 0xAB", got)
	}
}

func TestPPUDataBufferedReadIsDelayedByOneRead(t *testing.T) {
	p, bus, _ := newTestPPU()
	bus.chr[0x0010] = 0x11
	bus.chr[0x0011] = 0x22

	p.WriteRegister(6, 0x00)
	p.WriteRegister(6, 0x10)

	first := p.ReadRegister(7)
	second := p.ReadRegister(7)
	if first != 0 {
		t.Fatalf("first read should return stale buffer (0), got %#x", first)
	}
	if second != 0x11 {
		t.Fatalf("second read = %#x, want 0x11", second)
	}
}

func TestPPUDataPaletteReadIsUnbuffered(t *testing.T) {
	p, _, _ := newTestPPU()
	p.paletteRAM[0x00] = 0x2A

	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x00)

	got := p.ReadRegister(7)
	if got != 0x2A {
		t.Fatalf("palette PPUDATA read = %#x, want 0x2A (unbuffered)", got)
	}
}

func TestPPUScrollTwoWriteLatch(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(5, 0x7D) // coarse X = 15, fine X = 5
	p.WriteRegister(5, 0x5E) // coarse Y = 11, fine Y = 6

	if p.x != 5 {
		t.Fatalf("fine X = %d, want 5", p.x)
	}
	if p.t.coarseX() != 15 {
		t.Fatalf("coarse X = %d, want 15", p.t.coarseX())
	}
	if p.t.coarseY() != 11 {
		t.Fatalf("coarse Y = %d, want 11", p.t.coarseY())
	}
	if p.t.fineY() != 6 {
		t.Fatalf("fine Y = %d, want 6", p.t.fineY())
	}
}

func TestVBlankFlagSetsAndNMIFires(t *testing.T) {
	p, _, target := newTestPPU()
	p.ctrl = ctrlNMIEnable

	p.scanline = 241
	p.dot = 0
	p.Tick()

	if !p.statusVBlank {
		t.Fatal("vblank flag should be set at scanline 241, dot 1")
	}
	if target.count != 1 {
		t.Fatalf("NMI fire count = %d, want 1", target.count)
	}
}

func TestVBlankAndSpriteFlagsClearAtPrerenderDot1(t *testing.T) {
	p, _, _ := newTestPPU()
	p.statusVBlank = true
	p.statusSprite0Hit = true
	p.statusSpriteOverflow = true
	p.scanline = -1
	p.dot = 0

	p.Tick()

	if p.statusVBlank || p.statusSprite0Hit || p.statusSpriteOverflow {
		t.Fatal("status flags should clear at dot 1 of the pre-render line")
	}
}

func TestReadingPPUStatusClearsVBlankAndWriteLatch(t *testing.T) {
	p, _, _ := newTestPPU()
	p.statusVBlank = true
	p.w = true

	status := p.ReadRegister(2)
	if status&0x80 == 0 {
		t.Fatal("status byte should report vblank set before the read clears it")
	}
	if p.statusVBlank {
		t.Fatal("reading PPUSTATUS should clear vblank")
	}
	if p.w {
		t.Fatal("reading PPUSTATUS should reset the write latch")
	}
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p, _, _ := newTestPPU()
	p.bus.(*fakeCHRBus).mirror = cartridge.MirrorHorizontal

	if p.nametableIndex(0x2000) != p.nametableIndex(0x2400) {
		t.Fatal("horizontal mirroring should alias nametables 0 and 1")
	}
	if p.nametableIndex(0x2800) != p.nametableIndex(0x2C00) {
		t.Fatal("horizontal mirroring should alias nametables 2 and 3")
	}
	if p.nametableIndex(0x2000) == p.nametableIndex(0x2800) {
		t.Fatal("horizontal mirroring should not alias the top and bottom nametables")
	}
}

func TestNametableMirroringVertical(t *testing.T) {
	p, _, _ := newTestPPU()
	p.bus.(*fakeCHRBus).mirror = cartridge.MirrorVertical

	if p.nametableIndex(0x2000) != p.nametableIndex(0x2800) {
		t.Fatal("vertical mirroring should alias nametables 0 and 2")
	}
	if p.nametableIndex(0x2000) == p.nametableIndex(0x2400) {
		t.Fatal("vertical mirroring should not alias the left and right nametables")
	}
}

func TestNametableMirroringFourScreenUsesAllFourQuadrantsDistinctly(t *testing.T) {
	p, _, _ := newTestPPU()
	p.bus.(*fakeCHRBus).mirror = cartridge.MirrorFourScreen

	indexes := []uint16{
		p.nametableIndex(0x2000),
		p.nametableIndex(0x2400),
		p.nametableIndex(0x2800),
		p.nametableIndex(0x2C00),
	}
	for i, idx := range indexes {
		if idx >= uint16(len(p.vram)) {
			t.Fatalf("nametable %d index %d out of bounds of a %d-byte vram", i, idx, len(p.vram))
		}
		for j := i + 1; j < len(indexes); j++ {
			if idx == indexes[j] {
				t.Fatalf("four-screen mirroring aliased nametables %d and %d", i, j)
			}
		}
	}

	p.writeVRAM(0x23FF, 0xAB)
	if got := p.readVRAM(0x23FF); got != 0xAB {
		t.Fatalf("readVRAM/writeVRAM round trip through four-screen nametable 0 = %#02x, want 0xAB", got)
	}
}

func TestSpriteEvaluationCapsAtEightAndFlagsOverflow(t *testing.T) {
	p, _, _ := newTestPPU()
	p.mask = maskShowSprites
	p.scanline = 10
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 9 // sprite Y+1 == 10, so it's visible on scanline 10
		p.oam[i*4+1] = uint8(i)
	}

	p.evaluateSprites()

	if p.spriteCount != 8 {
		t.Fatalf("spriteCount = %d, want 8", p.spriteCount)
	}
	if !p.statusSpriteOverflow {
		t.Fatal("expected sprite overflow flag set with 9 sprites on one scanline")
	}
}

func TestSpriteZeroHitExcludedAtColumn255(t *testing.T) {
	p, bus, _ := newTestPPU()
	p.mask = maskShowBG | maskShowSprites
	p.scanline = 10

	// Opaque background pixel everywhere.
	p.bgShiftHi = 0xFFFF
	p.bgShiftLo = 0xFFFF

	// Sprite 0 at column 255, fully opaque 8x8 tile 0.
	bus.chr[0] = 0xFF
	bus.chr[8] = 0x00
	p.oam[0] = 9 // y+1 = 10
	p.oam[1] = 0
	p.oam[2] = 0
	p.oam[3] = 255
	p.evaluateSprites()

	p.renderPixel(255)
	if p.statusSprite0Hit {
		t.Fatal("sprite-zero hit must not trigger at x == 255")
	}

	p.statusSprite0Hit = false
	p.oam[3] = 100
	p.evaluateSprites()
	p.renderPixel(100)
	if !p.statusSprite0Hit {
		t.Fatal("expected sprite-zero hit at an ordinary column with overlapping opaque pixels")
	}
}

func TestLoopyIncrementYWrapsAtRow29AndFlipsVerticalNametable(t *testing.T) {
	var l loopy
	l.data = 0x7000 | (29 << 5)
	l.incrementY()
	if l.coarseY() != 0 {
		t.Fatalf("coarse Y = %d, want 0 after wrap", l.coarseY())
	}
	if l.data&0x0800 == 0 {
		t.Fatal("expected vertical nametable bit to flip on wrap at row 29")
	}
}

func TestOddFrameDotSkip(t *testing.T) {
	p, _, _ := newTestPPU()
	p.mask = maskShowBG
	p.oddFrame = true
	p.scanline = -1
	p.dot = 339

	p.Tick()
	if p.dot != 0 || p.scanline != 0 {
		t.Fatalf("expected dot 340 to be skipped on odd frames, got scanline=%d dot=%d", p.scanline, p.dot)
	}
}
