package ppu

import "github.com/nescore/nesbox/internal/cartridge"

// readVRAM dispatches a PPU-bus read across pattern tables (cartridge),
// nametables (internal VRAM, mirrored per the cartridge's wiring) and
// palette RAM, mirroring the $0000-$3FFF space down from the 16-bit
// address PPUDATA and the background fetcher both use.
func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.bus.PPURead(addr)
	case addr < 0x3F00:
		return p.vram[p.nametableIndex(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.PPUWrite(addr, value)
	case addr < 0x3F00:
		p.vram[p.nametableIndex(addr)] = value
	default:
		p.writePalette(addr, value)
	}
}

// nametableIndex maps a $2000-$3EFF address onto nametable RAM according
// to the cartridge's mirroring mode: the console's 2 KiB for horizontal,
// vertical and single-screen mirroring, all 4 KiB for four-screen.
func (p *PPU) nametableIndex(addr uint16) uint16 {
	a := (addr - 0x2000) & 0x0FFF
	table := (a >> 10) & 0x03
	offset := a & 0x03FF

	switch p.bus.Mirroring() {
	case cartridge.MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case cartridge.MirrorSingleLower:
		return offset
	case cartridge.MirrorSingleUpper:
		return 0x400 + offset
	case cartridge.MirrorFourScreen:
		return a // all 4 KiB addressed directly, one nametable per quadrant
	default: // MirrorHorizontal
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	}
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.paletteRAM[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.paletteRAM[paletteIndex(addr)] = value & 0x3F
}

// paletteIndex folds a palette address down to 0-31 and applies the
// sprite/background mirror at $10/$14/$18/$1C.
func paletteIndex(addr uint16) uint16 {
	idx := (addr - 0x3F00) & 0x1F
	switch idx {
	case 0x10, 0x14, 0x18, 0x1C:
		idx &= 0x0F
	}
	return idx
}
