package ppu

// evaluateSprites scans all 64 OAM entries for ones visible on the
// current scanline, keeping the first 8 in hit order. A 9th hit sets
// the overflow flag; this is the straightforward scan, not the
// diagonal read bug real hardware exhibits when more than 8 sprites
// share a scanline.
func (p *PPU) evaluateSprites() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	for i := range p.spriteIndexes {
		p.spriteIndexes[i] = 0xFF
	}
	p.spriteCount = 0
	p.sprite0Selected = false
	p.statusSpriteOverflow = false

	height := p.spriteHeight()
	found := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if p.scanline < y+1 || p.scanline >= y+1+height {
			continue
		}
		if found < 8 {
			copy(p.secondaryOAM[found*4:found*4+4], p.oam[i*4:i*4+4])
			p.spriteIndexes[found] = uint8(i)
			if i == 0 {
				p.sprite0Selected = true
			}
			found++
		} else {
			p.statusSpriteOverflow = true
			break
		}
	}
	p.spriteCount = uint8(found)
}

type spritePixel struct {
	colorIndex uint8 // 0-3, 0 is transparent
	palette    uint8
	behindBG   bool
	isSprite0  bool
}

// spritePixelAt computes the topmost opaque sprite pixel covering
// screen column x on the current scanline, or a transparent result if
// none covers it.
func (p *PPU) spritePixelAt(x int) spritePixel {
	height := p.spriteHeight()
	for i := 0; i < int(p.spriteCount); i++ {
		base := i * 4
		spriteY := int(p.secondaryOAM[base])
		tile := p.secondaryOAM[base+1]
		attr := p.secondaryOAM[base+2]
		spriteX := int(p.secondaryOAM[base+3])

		col := x - spriteX
		if col < 0 || col > 7 {
			continue
		}
		row := p.scanline - (spriteY + 1)
		if attr&0x40 != 0 { // flip horizontal
			col = 7 - col
		}
		if attr&0x80 != 0 { // flip vertical
			row = height - 1 - row
		}

		lo, hi := p.spritePatternBytes(tile, row, height)
		bit := 7 - col
		colorIndex := ((hi>>bit)&1)<<1 | (lo>>bit)&1
		if colorIndex == 0 {
			continue
		}
		return spritePixel{
			colorIndex: colorIndex,
			palette:    attr & 0x03,
			behindBG:   attr&0x20 != 0,
			isSprite0:  p.spriteIndexes[i] == 0 && p.sprite0Selected,
		}
	}
	return spritePixel{}
}

func (p *PPU) spritePatternBytes(tile uint8, row, height int) (lo, hi uint8) {
	var base uint16
	var index uint8
	if height == 16 {
		base = uint16(tile&0x01) * 0x1000
		index = tile &^ 0x01
		if row >= 8 {
			index++
			row -= 8
		}
	} else {
		if p.ctrl&ctrlSpritePattern != 0 {
			base = 0x1000
		}
		index = tile
	}
	addr := base + uint16(index)*16 + uint16(row)
	return p.bus.PPURead(addr), p.bus.PPURead(addr + 8)
}
